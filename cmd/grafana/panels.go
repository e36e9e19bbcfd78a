package grafana

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rancher/grafana2moira/cmd/groups"
	"github.com/rancher/grafana2moira/internal/cmd/convert"
	"github.com/rancher/grafana2moira/internal/logging"
)

var (
	panelsFromConfigMap string
	panelsKubeconfig    string
)

// panelsCmd represents the panels command
var panelsCmd = &cobra.Command{
	Use:     "panels [dashboard-link]",
	Short:   "List the dashboard panels carrying an alert rule",
	GroupID: groups.GrafanaGroup.ID,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) == 1 || (len(args) == 0 && panelsFromConfigMap != "") {
			return nil
		}
		return fmt.Errorf("you must provide a dashboard link or --from-configmap")
	},
	RunE: listPanels,
}

func init() {
	panelsCmd.Flags().StringVar(&panelsFromConfigMap, "from-configmap", "", "read the dashboard from a ConfigMap: <namespace>/<name>[:<key>]")
	panelsCmd.Flags().StringVar(&panelsKubeconfig, "kubeconfig", "", "path to the kubeconfig used with --from-configmap")
}

func listPanels(cmd *cobra.Command, args []string) error {
	src := convert.Source{
		APIURL:     viper.GetString("api"),
		Token:      viper.GetString("token"),
		ConfigMap:  panelsFromConfigMap,
		Kubeconfig: panelsKubeconfig,
	}
	if len(args) == 1 {
		src.DashboardLink = args[0]
	}

	converter := &convert.Converter{Log: logging.Log}
	dashboard, err := converter.LoadDashboard(cmd.Context(), src)
	if err != nil {
		return err
	}
	panels := convert.AlertPanels(dashboard)

	fmt.Printf("Dashboard: %s\n", dashboard.Dashboard.Title)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Panel", "Title", "Alert", "Conditions", "Links"})
	for idx, panel := range panels {
		t.AppendRow(table.Row{
			idx + 1,
			panel.ID,
			panel.Title,
			panel.AlertName,
			panel.Conditions,
			panel.Links,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(panels)})
	t.Render()
	return nil
}
