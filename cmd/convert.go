package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	helpers "github.com/rancher/grafana2moira/internal/cmd"
	"github.com/rancher/grafana2moira/internal/cmd/convert"
	"github.com/rancher/grafana2moira/internal/logging"
	"github.com/rancher/grafana2moira/internal/moira"
)

var (
	dashboardLink string
	jsonOption    bool
	moiraOption   bool
	manifestName  string
	namespace     string
	fromConfigMap string
	kubeconfig    string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Export the alerts of a Grafana dashboard as raw JSON or as a Moira trigger set",
	Long: `Fetches the dashboard behind --dashboard (or --from-configmap, or reads it from
stdin), finds the panels
carrying a legacy alert rule and writes either:

  --json   <dashboard title>.json with the untranslated targets and alert of each panel
  --moira  <dashboard title>.yaml with one Moira trigger per panel

With --configmap the trigger set is also wrapped into a ConfigMap manifest.`,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) != 0 {
			return fmt.Errorf("unexpected arguments %v, pass the dashboard with --dashboard", args)
		}
		if dashboardLink == "" && fromConfigMap == "" && !helpers.IsDataFromStdin() {
			return fmt.Errorf("you must provide either --dashboard, --from-configmap or a dashboard on stdin")
		}
		return nil
	},
	RunE: convertHandler,
}

func init() {
	convertCmd.Flags().StringVarP(&dashboardLink, "dashboard", "d", "", "dashboard link for exporting alerting")
	convertCmd.Flags().BoolVarP(&jsonOption, "json", "j", false, "export raw panel alerts as json")
	convertCmd.Flags().BoolVarP(&moiraOption, "moira", "m", false, "export a moira+graphite trigger set")
	convertCmd.Flags().StringP("output-dir", "o", ".", "directory the exported files are written to")
	convertCmd.Flags().StringVar(&manifestName, "configmap", "", "also write the trigger set as a ConfigMap manifest with this name")
	convertCmd.Flags().StringVar(&namespace, "namespace", "default", "namespace of the ConfigMap manifest")
	convertCmd.Flags().StringVar(&fromConfigMap, "from-configmap", "", "read the dashboard from a ConfigMap: <namespace>/<name>[:<key>]")
	convertCmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "path to the kubeconfig used with --from-configmap")
	convertCmd.MarkFlagsMutuallyExclusive("json", "moira")
	convertCmd.MarkFlagsMutuallyExclusive("dashboard", "from-configmap")

	if err := viper.BindPFlag("output-dir", convertCmd.Flags().Lookup("output-dir")); err != nil {
		logging.Log.Error(err)
	}
	viper.SetDefault("moira.tag", moira.DefaultTag)
	viper.SetDefault("moira.ttl-state", string(moira.TTLStateOK))

	rootCmd.AddCommand(convertCmd)
}

func convertHandler(cmd *cobra.Command, _ []string) error {
	opts, err := convertOptions()
	if err != nil {
		return err
	}

	converter := &convert.Converter{Log: logging.Log}
	result, err := converter.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if result.TriggerSet != nil {
		printTriggers(result.TriggerSet)
	}
	return nil
}

func convertOptions() (convert.Options, error) {
	opts := convert.Options{
		Source: convert.Source{
			DashboardLink: dashboardLink,
			APIURL:        viper.GetString("api"),
			Token:         viper.GetString("token"),
			ConfigMap:     fromConfigMap,
			Kubeconfig:    kubeconfig,
		},
		OutputDir:    viper.GetString("output-dir"),
		ManifestName: manifestName,
		Namespace:    namespace,
		Tag:          viper.GetString("moira.tag"),
		TTLState:     moira.TTLState(viper.GetString("moira.ttl-state")),
	}
	if err := viper.UnmarshalKey("moira.contacts", &opts.Contacts); err != nil {
		return opts, fmt.Errorf("invalid moira.contacts: %w", err)
	}

	if dashboardLink == "" && fromConfigMap == "" {
		if reader, ok := helpers.StdinDashboard(); ok {
			opts.Reader = reader
		}
	}

	switch {
	case jsonOption:
		opts.Mode = convert.ModeRaw
	case moiraOption:
		opts.Mode = convert.ModeMoira
	default:
		opts.Mode = convert.ModeParse
	}

	if opts.APIURL == "" {
		return opts, fmt.Errorf("the grafana api url is required, use --api or G2M_API")
	}
	if opts.ConfigMap == "" && opts.Reader == nil && opts.Token == "" {
		return opts, fmt.Errorf("without token i cant do anything, use --token or G2M_TOKEN")
	}
	switch opts.TTLState {
	case moira.TTLStateError, moira.TTLStateNoData, moira.TTLStateOK:
	default:
		return opts, fmt.Errorf("invalid moira.ttl-state %q, expected one of ERROR, NODATA, OK", opts.TTLState)
	}
	return opts, nil
}

func printTriggers(set *moira.TriggerSet) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Trigger", "Targets", "TTL", "TTL State", "Expression"})
	for idx, trigger := range set.Triggers {
		t.AppendRow(table.Row{
			idx + 1,
			trigger.Name,
			len(trigger.Targets),
			trigger.TTL,
			trigger.TTLState,
			trigger.Expression,
		})
	}
	t.Render()
}
