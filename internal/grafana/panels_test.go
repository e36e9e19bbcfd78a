package grafana

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboardJSON = `{
  "dashboard": {
    "id": 7,
    "uid": "abc",
    "title": "Backend",
    "tags": ["backend"],
    "panels": [
      {"id": 1, "type": "graph", "title": "No alert", "targets": [{"refId": "A", "target": "a.b"}]},
      {"id": 2, "type": "graph", "title": "CPU",
       "targets": [{"refId": "A", "target": "cpu.*", "targetFull": "sumSeries(cpu.*)"}],
       "alert": {"name": "CPU alert", "for": "5m", "noDataState": "ok",
         "conditions": [{"evaluator": {"type": "gt", "params": [90]},
                         "operator": {"type": "and"},
                         "query": {"params": ["A", "5m", "now"]},
                         "reducer": {"type": "avg", "params": []}}]},
       "links": [{"url": "https://wiki/cpu", "title": "Runbook"}]},
      {"id": 3, "type": "row", "title": "Row", "panels": [
        {"id": 4, "type": "graph", "title": "Memory",
         "targets": [{"refId": "A", "target": "mem"}],
         "alert": {"name": "Memory", "conditions": []}},
        {"id": 5, "type": "graph", "title": "Empty targets", "targets": [], "alert": {"name": "x"}}
      ]},
      {"id": 6, "type": "graph", "title": "Null alert", "targets": [{"refId": "A"}], "alert": null}
    ]
  },
  "meta": {"url": "/grafana/d/abc/backend", "slug": "backend"}
}`

func loadDashboard(t *testing.T) *DashboardResponse {
	t.Helper()
	var resp DashboardResponse
	require.NoError(t, json.Unmarshal([]byte(dashboardJSON), &resp))
	return &resp
}

func TestEligiblePanels(t *testing.T) {
	resp := loadDashboard(t)

	panels := EligiblePanels(resp.Dashboard)
	ids := make([]int64, 0, len(panels))
	for _, p := range panels {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{2, 4}, ids)
}

func TestFlattenPanels(t *testing.T) {
	panels := FlattenPanels([]Panel{
		{ID: 1, Type: "graph", Title: "first"},
		{ID: 2, Type: "row", Panels: []Panel{{ID: 3, Type: "graph"}, {ID: 1, Type: "graph", Title: "dup"}}},
		{ID: 4, Type: "stat"},
	})

	require.Len(t, panels, 3)
	assert.Equal(t, int64(1), panels[0].ID)
	assert.Equal(t, "dup", panels[0].Title)
	assert.Equal(t, int64(4), panels[1].ID)
	assert.Equal(t, int64(3), panels[2].ID)
}

func TestAlertSource(t *testing.T) {
	resp := loadDashboard(t)
	panels := EligiblePanels(resp.Dashboard)

	src, err := panels[0].AlertSource("https://grafana/d/abc?viewPanel=2", resp.Dashboard.Tags)
	require.NoError(t, err)
	assert.Equal(t, int64(2), src.PanelID)
	assert.Equal(t, "CPU alert", src.Alert.Name)
	require.Len(t, src.Alert.Conditions, 1)
	refID, from, to := src.Alert.Conditions[0].QueryRef()
	assert.Equal(t, []string{"A", "5m", "now"}, []string{refID, from, to})
	assert.Equal(t, []float64{90}, src.Alert.Conditions[0].Evaluator.Params)
	require.Len(t, src.Targets, 1)
	assert.Equal(t, "sumSeries(cpu.*)", *src.Targets[0].TargetFull)
	assert.Equal(t, []Link{{URL: "https://wiki/cpu", Title: "Runbook"}}, src.Links)
	assert.Equal(t, []string{"backend"}, src.Tags)

	src, err = panels[1].AlertSource("", nil)
	require.NoError(t, err)
	assert.Nil(t, src.Links)
	assert.Nil(t, src.Targets[0].TargetFull)
}

func TestAlertSourceWithoutAlert(t *testing.T) {
	resp := loadDashboard(t)

	_, err := resp.Dashboard.Panels[0].AlertSource("", nil)
	assert.ErrorIs(t, err, ErrNoAlert)
}

func TestPanelHasAlert(t *testing.T) {
	targets := json.RawMessage(`[{"refId": "A", "target": "a.b"}]`)
	tests := []struct {
		name    string
		alert   string
		targets json.RawMessage
		want    bool
	}{
		{"alert object", `{"name": "x"}`, targets, true},
		{"missing alert", ``, targets, false},
		{"null alert", `null`, targets, false},
		{"empty alert", `{ }`, targets, false},
		{"false alert", `false`, targets, false},
		{"string alert", `"yes"`, targets, false},
		{"array alert", `[{"name": "x"}]`, targets, false},
		{"empty targets", `{"name": "x"}`, json.RawMessage(`[]`), false},
		{"targets not a list", `{"name": "x"}`, json.RawMessage(`{"refId": "A"}`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Panel{ID: 1, Targets: tt.targets, Alert: json.RawMessage(tt.alert)}
			assert.Equal(t, tt.want, p.HasAlert())
		})
	}
}

func TestEligiblePanelsSkipsFalsyAlert(t *testing.T) {
	var dashboard Dashboard
	require.NoError(t, json.Unmarshal([]byte(`{"panels": [
	  {"id": 1, "type": "graph", "targets": [{"refId": "A"}], "alert": false},
	  {"id": 2, "type": "graph", "targets": [{"refId": "A"}], "alert": {"name": "ok"}}
	]}`), &dashboard))

	panels := EligiblePanels(dashboard)
	require.Len(t, panels, 1)
	assert.Equal(t, int64(2), panels[0].ID)
}

func TestPanelRawKeepsFields(t *testing.T) {
	resp := loadDashboard(t)
	raw := EligiblePanels(resp.Dashboard)[0].Raw()

	var alert map[string]interface{}
	require.NoError(t, json.Unmarshal(raw.Alert, &alert))
	assert.Equal(t, "CPU alert", alert["name"])
	assert.Contains(t, string(raw.Targets), `"targetFull"`)
}

func TestPanelURL(t *testing.T) {
	resp := loadDashboard(t)

	link, err := resp.PanelURL("https://grafana.example.com/grafana/api", 2)
	require.NoError(t, err)
	assert.Equal(t, "https://grafana.example.com/grafana/d/abc/backend?viewPanel=2", link)

	_, err = resp.PanelURL("http://[::1", 2)
	assert.Error(t, err)
}

func TestConditionQueryRefShortParams(t *testing.T) {
	var c Condition
	c.Query.Params = []string{"B"}
	refID, from, to := c.QueryRef()
	assert.Equal(t, "B", refID)
	assert.Empty(t, from)
	assert.Empty(t, to)
}

func TestDecodeDashboard(t *testing.T) {
	resp, err := DecodeDashboard(strings.NewReader(dashboardJSON))
	require.NoError(t, err)
	assert.Equal(t, "/grafana/d/abc/backend", resp.Meta.URL)
	assert.Len(t, resp.Dashboard.Panels, 4)

	resp, err = DecodeDashboard(strings.NewReader(`{"uid": "bare", "title": "Bare", "panels": []}`))
	require.NoError(t, err)
	assert.Equal(t, "Bare", resp.Dashboard.Title)
	assert.Equal(t, "d/bare", resp.Meta.URL)

	_, err = DecodeDashboard(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)
}
