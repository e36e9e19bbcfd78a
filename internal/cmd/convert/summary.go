package convert

import (
	"encoding/json"

	"github.com/rancher/grafana2moira/internal/grafana"
)

// PanelSummary describes one alerting panel for listings.
type PanelSummary struct {
	ID         int64
	Title      string
	AlertName  string
	Conditions int
	Links      int
}

// AlertPanels summarizes the eligible panels of the dashboard in panel order.
func AlertPanels(dashboard *grafana.DashboardResponse) []PanelSummary {
	panels := grafana.EligiblePanels(dashboard.Dashboard)
	summaries := make([]PanelSummary, 0, len(panels))
	for _, panel := range panels {
		summary := PanelSummary{
			ID:    panel.ID,
			Title: panel.Title,
			Links: len(panel.Links),
		}
		var alert grafana.Alert
		if err := json.Unmarshal(panel.Alert, &alert); err == nil {
			summary.AlertName = alert.Name
			summary.Conditions = len(alert.Conditions)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
