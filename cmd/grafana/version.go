package grafana

import (
	"fmt"

	"github.com/jedib0t/go-pretty/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rancher/grafana2moira/cmd/groups"
	grafanaapi "github.com/rancher/grafana2moira/internal/grafana"
	"github.com/rancher/grafana2moira/internal/logging"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Check that the Grafana server still serves legacy panel alerts",
	GroupID: groups.GrafanaGroup.ID,
	Args:    cobra.NoArgs,
	RunE:    checkVersion,
}

func checkVersion(cmd *cobra.Command, _ []string) error {
	client := grafanaapi.NewClient(viper.GetString("api"), viper.GetString("token"), nil, logging.Log)
	health, err := client.GetHealth(cmd.Context())
	if err != nil {
		return fmt.Errorf("could not read grafana health: %w", err)
	}

	supported, err := grafanaapi.SupportsLegacyAlerting(health.Version)
	if err != nil {
		return err
	}
	if !supported {
		fmt.Println(text.Color.Sprintf(text.FgRed, "Grafana %s: legacy panel alerts are not available, nothing to export", health.Version))
		return fmt.Errorf("grafana %s does not support legacy alerting", health.Version)
	}
	fmt.Println(text.Color.Sprintf(text.FgGreen, "Grafana %s: legacy panel alerts are available", health.Version))
	return nil
}
