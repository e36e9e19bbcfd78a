package grafana

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rancher/grafana2moira/internal/util"
)

// HasAlert reports whether the panel carries both an alert rule and at least one target.
// An alert that is not a non-empty JSON object does not count.
func (p Panel) HasAlert() bool {
	if isNull(p.Alert) || isNull(p.Targets) {
		return false
	}
	var alert map[string]json.RawMessage
	if err := json.Unmarshal(p.Alert, &alert); err != nil || len(alert) == 0 {
		return false
	}
	var targets []json.RawMessage
	if err := json.Unmarshal(p.Targets, &targets); err != nil {
		return false
	}
	return len(targets) > 0
}

// Raw returns the untranslated alert data of the panel.
func (p Panel) Raw() RawPanelAlert {
	return RawPanelAlert{Targets: p.Targets, Alert: p.Alert}
}

// AlertSource decodes the panel's targets and alert for translation.
func (p Panel) AlertSource(panelURL string, tags []string) (*PanelAlertSource, error) {
	if !p.HasAlert() {
		return nil, fmt.Errorf("panel %d: %w", p.ID, ErrNoAlert)
	}
	var targets []Target
	if err := json.Unmarshal(p.Targets, &targets); err != nil {
		return nil, fmt.Errorf("panel %d: decoding targets: %w", p.ID, err)
	}
	var alert Alert
	if err := json.Unmarshal(p.Alert, &alert); err != nil {
		return nil, fmt.Errorf("panel %d: decoding alert: %w", p.ID, err)
	}
	var links []Link
	if len(p.Links) > 0 {
		links = p.Links
	}
	return &PanelAlertSource{
		PanelID: p.ID,
		Targets: targets,
		Alert:   &alert,
		Links:   links,
		Tags:    tags,
		URL:     panelURL,
	}, nil
}

// FlattenPanels lifts the children of row panels into the top-level list.
// Rows themselves are dropped. Only one level of nesting is flattened.
// Panel ids are expected to be unique; with duplicates the later panel wins.
func FlattenPanels(panels []Panel) []Panel {
	byID := make(map[int64]int)
	out := make([]Panel, 0, len(panels))
	put := func(p Panel) {
		if idx, ok := byID[p.ID]; ok {
			out[idx] = p
			return
		}
		byID[p.ID] = len(out)
		out = append(out, p)
	}

	for _, p := range panels {
		if p.Type != rowPanelType {
			put(p)
		}
	}
	for _, p := range panels {
		if p.Type == rowPanelType {
			for _, child := range p.Panels {
				put(child)
			}
		}
	}
	return out
}

// EligiblePanels returns the flattened panels that can be translated into triggers.
func EligiblePanels(dashboard Dashboard) []Panel {
	return util.FilterSlice(FlattenPanels(dashboard.Panels), Panel.HasAlert)
}

// PanelURL builds the public link of a single panel: <scheme>://<host>/<meta.url>?viewPanel=<id>.
func (r *DashboardResponse) PanelURL(apiURL string, panelID int64) (string, error) {
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("parsing api url %q: %w", apiURL, err)
	}
	base := parsed.Scheme + "://" + parsed.Host + "/"
	return fmt.Sprintf("%s%s?viewPanel=%d", base, strings.TrimPrefix(r.Meta.URL, "/"), panelID), nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

// DecodeDashboard reads either a GET /dashboards/uid/<uid> response or a bare
// dashboard model, as exported from the Grafana UI. A bare model gets meta.url d/<uid>.
func DecodeDashboard(r io.Reader) (*DashboardResponse, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dashboard: %w", err)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("decoding dashboard: %w", err)
	}

	if _, wrapped := probe["dashboard"]; wrapped {
		var resp DashboardResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decoding dashboard: %w", err)
		}
		return &resp, nil
	}

	var dashboard Dashboard
	if err := json.Unmarshal(body, &dashboard); err != nil {
		return nil, fmt.Errorf("decoding dashboard: %w", err)
	}
	return &DashboardResponse{
		Dashboard: dashboard,
		Meta:      DashboardMeta{URL: "d/" + dashboard.UID},
	}, nil
}
