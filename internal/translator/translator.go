// Package translator converts Grafana legacy panel alerts into Moira triggers.
package translator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rancher/grafana2moira/internal/grafana"
	"github.com/rancher/grafana2moira/internal/moira"
)

const expressionSuffix = " ? ERROR : OK"

// Translator turns one panel at a time into a Moira trigger. It holds no state
// between calls.
type Translator struct {
	log             logrus.FieldLogger
	defaultTTLState moira.TTLState
}

// New creates a Translator. defaultTTLState is used when the alert no-data state
// has no Moira counterpart; empty means OK.
func New(log logrus.FieldLogger, defaultTTLState moira.TTLState) *Translator {
	if defaultTTLState == "" {
		defaultTTLState = moira.TTLStateOK
	}
	return &Translator{log: log, defaultTTLState: defaultTTLState}
}

// Translate builds the trigger for src. Unsupported evaluators, reducers, operators
// and durations are logged and rendered empty; the only failure is a source
// without alert or targets.
func (t *Translator) Translate(src *grafana.PanelAlertSource) (*moira.Trigger, error) {
	if src == nil || src.Alert == nil || len(src.Targets) == 0 {
		return nil, grafana.ErrNoAlert
	}
	log := t.log.WithField("panel", src.PanelID)
	alert := src.Alert
	metrics := resolveTargets(src.Targets)

	targets := make([]string, 0, len(alert.Conditions))
	var expression strings.Builder
	for idx, cond := range alert.Conditions {
		index := idx + 1
		condLog := log.WithField("condition", index)

		refID, from, _ := cond.QueryRef()
		if len(cond.Query.Params) < 2 {
			condLog.Warnf("Unable to parse query params: %v", cond.Query.Params)
		}
		metric := strings.ReplaceAll(metrics[refID], `"`, "'")

		target, ok := renderReducer(cond.Reducer.Type, metric, from)
		if !ok {
			condLog.WithField("type", cond.Reducer.Type).Warn("Unknown agg function")
		}
		targets = append(targets, target)

		if index > 1 {
			operator, ok := renderOperator(cond.Operator.Type)
			if !ok {
				condLog.WithField("type", cond.Operator.Type).Warn("Logical operator not found")
			}
			expression.WriteString(" " + operator + " ")
		}

		comparison, ok := renderEvaluator(cond.Evaluator, fmt.Sprintf("t%d", index))
		if !ok {
			if cond.Evaluator.Type == evaluatorNoValue {
				condLog.Warn("Evaluator no_value is not supported by Moira")
			} else {
				condLog.WithField("type", cond.Evaluator.Type).Warnf("Unable to parse evaluator: %v", cond.Evaluator.Params)
			}
		}
		expression.WriteString(comparison)
	}
	expression.WriteString(expressionSuffix)

	ttl, err := ParseTTL(alert.For, alert.NoDataState)
	if err != nil {
		log.Warn(err)
		var stateErr *UnknownStateError
		if errors.As(err, &stateErr) {
			log.Warnf("Falling back to ttl state %s", t.defaultTTLState)
			ttl.State = t.defaultTTLState
		}
	}

	return &moira.Trigger{
		Name:            strings.ReplaceAll(alert.Name, " alert", ""),
		Desc:            moira.Description(alert.Message + linksFooter(src.URL)),
		Targets:         targets,
		TTL:             ttl.TTL,
		TTLState:        ttl.State,
		Expression:      expression.String(),
		Dashboard:       src.URL,
		PendingInterval: ttl.PendingInterval,
		Tags:            src.Tags,
		Saturation:      screenshotActions(src.Links),
	}, nil
}

// resolveTargets maps refId to the metric string, preferring the expanded query.
func resolveTargets(targets []grafana.Target) map[string]string {
	metrics := make(map[string]string, len(targets))
	for _, target := range targets {
		switch {
		case target.TargetFull != nil:
			metrics[target.RefID] = *target.TargetFull
		case target.Target != nil:
			metrics[target.RefID] = *target.Target
		default:
			metrics[target.RefID] = ""
		}
	}
	return metrics
}

func linksFooter(panelURL string) string {
	return "\n[links]\n" + fmt.Sprintf("• <%s|Grafana>", panelURL)
}

func screenshotActions(links []grafana.Link) []moira.Saturation {
	if len(links) == 0 {
		return nil
	}
	actions := make([]moira.Saturation, 0, len(links))
	for _, link := range links {
		actions = append(actions, moira.Saturation{
			Type: moira.ScreenshotAction,
			Parameters: moira.SaturationParameters{
				URL:     link.URL,
				Caption: link.Title,
			},
		})
	}
	return actions
}
