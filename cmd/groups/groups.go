package groups

import "github.com/spf13/cobra"

var GrafanaGroup cobra.Group = cobra.Group{
	ID:    "grafana",
	Title: "Grafana Commands:",
}
