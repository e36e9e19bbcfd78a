package grafana

import (
	"encoding/json"
	"errors"
)

// ErrNoAlert is returned when a panel carries no alert rule or no query targets.
var ErrNoAlert = errors.New("no alert or trigger information on this panel")

const rowPanelType = "row"

// DashboardResponse is the payload of GET /dashboards/uid/<uid>.
type DashboardResponse struct {
	Dashboard Dashboard     `json:"dashboard"`
	Meta      DashboardMeta `json:"meta"`
}

type DashboardMeta struct {
	URL  string `json:"url"`
	Slug string `json:"slug,omitempty"`
}

type Dashboard struct {
	ID     int64    `json:"id"`
	UID    string   `json:"uid"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags"`
	Panels []Panel  `json:"panels"`
}

// Panel keeps targets and alert undecoded so the raw export can write them back untouched.
type Panel struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Targets json.RawMessage `json:"targets,omitempty"`
	Alert   json.RawMessage `json:"alert,omitempty"`
	Links   []Link          `json:"links,omitempty"`
	// Panels is only populated for collapsed rows.
	Panels []Panel `json:"panels,omitempty"`
}

type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Target is a single panel query.
type Target struct {
	RefID      string  `json:"refId"`
	Target     *string `json:"target,omitempty"`
	TargetFull *string `json:"targetFull,omitempty"`
}

// Alert is the legacy (pre unified alerting) panel alert rule.
type Alert struct {
	Name        string      `json:"name"`
	Message     string      `json:"message"`
	For         string      `json:"for"`
	NoDataState string      `json:"noDataState"`
	Conditions  []Condition `json:"conditions"`
}

type Condition struct {
	Evaluator Evaluator `json:"evaluator"`
	Operator  struct {
		Type string `json:"type"`
	} `json:"operator"`
	Query struct {
		// Params holds [refId, from, to].
		Params []string `json:"params"`
	} `json:"query"`
	Reducer struct {
		Type string `json:"type"`
	} `json:"reducer"`
}

type Evaluator struct {
	Type   string    `json:"type"` // e.g. "gt"
	Params []float64 `json:"params"`
}

// QueryRef returns the referenced target id and the from/to range of the condition query.
// Missing params come back empty.
func (c Condition) QueryRef() (refID, from, to string) {
	params := c.Query.Params
	if len(params) > 0 {
		refID = params[0]
	}
	if len(params) > 1 {
		from = params[1]
	}
	if len(params) > 2 {
		to = params[2]
	}
	return refID, from, to
}

// PanelAlertSource is everything the translator needs from one panel.
type PanelAlertSource struct {
	PanelID int64
	Targets []Target
	Alert   *Alert
	Links   []Link
	Tags    []string
	URL     string
}

// RawPanelAlert is the untranslated targets+alert pair of a panel.
type RawPanelAlert struct {
	Targets json.RawMessage `json:"targets"`
	Alert   json.RawMessage `json:"alert"`
}

// Health is the payload of GET /health.
type Health struct {
	Commit   string `json:"commit"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
