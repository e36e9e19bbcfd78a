package grafana

import (
	"fmt"

	"github.com/rancher/grafana2moira/cmd/groups"
	"github.com/spf13/cobra"
)

func subCommandList() []*cobra.Command {
	return []*cobra.Command{
		panelsCmd,
		versionCmd,
	}
}

func init() {
	for _, cmd := range subCommandList() {
		cmd.Use = fmt.Sprintf("%s:%s", groups.GrafanaGroup.ID, cmd.Use)
	}
}

func RegisterGrafanaSubcommands(cmd *cobra.Command) {
	for _, subCmd := range subCommandList() {
		cmd.AddCommand(subCmd)
	}
}
