package translator

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rancher/grafana2moira/internal/grafana"
)

// Grafana evaluator types.
const (
	evaluatorGreater      = "gt"
	evaluatorLower        = "lt"
	evaluatorOutsideRange = "outside_range"
	evaluatorWithinRange  = "within_range"
	evaluatorNoValue      = "no_value"
)

// renderEvaluator turns an evaluator into a Moira comparison on target.
// Params are sorted ascending first. It reports false for no_value, unknown
// types and too few params.
func renderEvaluator(ev grafana.Evaluator, target string) (string, bool) {
	params := make([]string, len(ev.Params))
	sorted := append([]float64(nil), ev.Params...)
	sort.Float64s(sorted)
	for i, p := range sorted {
		params[i] = strconv.FormatFloat(p, 'f', -1, 64)
	}

	switch ev.Type {
	case evaluatorGreater:
		if len(params) < 1 {
			return "", false
		}
		return fmt.Sprintf("%s > %s", target, params[0]), true
	case evaluatorLower:
		if len(params) < 1 {
			return "", false
		}
		return fmt.Sprintf("%s < %s", target, params[0]), true
	case evaluatorOutsideRange:
		if len(params) < 2 {
			return "", false
		}
		return fmt.Sprintf("(%s < %s && %s > %s)", target, params[0], target, params[1]), true
	case evaluatorWithinRange:
		if len(params) < 2 {
			return "", false
		}
		return fmt.Sprintf("%s >= %s >= %s", params[0], target, params[1]), true
	default:
		return "", false
	}
}

// renderReducer applies the Graphite aggregation matching a Grafana reducer.
// Unknown reducers keep the target as is and report false.
func renderReducer(reducerType, target, from string) (string, bool) {
	shifted := fmt.Sprintf("timeShift(%s, '%s')", target, from)
	diff := fmt.Sprintf("diffSeries(%s, %s)", target, shifted)

	switch reducerType {
	case "last":
		return target, true
	case "avg":
		return fmt.Sprintf("movingAverage(%s, '%s')", target, from), true
	case "min":
		return fmt.Sprintf("movingMin(%s, '%s')", target, from), true
	case "max":
		return fmt.Sprintf("movingMax(%s, '%s')", target, from), true
	case "sum":
		return fmt.Sprintf("movingSum(%s, '%s')", target, from), true
	case "median":
		return fmt.Sprintf("movingMedian(%s, '%s')", target, from), true
	case "diff":
		return diff, true
	case "percent_diff":
		return fmt.Sprintf("asPercent(%s, %s)", diff, shifted), true
	case "diff_abs":
		return fmt.Sprintf("absolute(%s, %s)", diff, shifted), true
	case "percent_diff_abs":
		return fmt.Sprintf("asPercent(absolute(%s, %s))", diff, shifted), true
	default:
		return target, false
	}
}

// renderOperator maps the logical operator joining a condition to the previous one.
func renderOperator(operatorType string) (string, bool) {
	switch operatorType {
	case "and":
		return "&&", true
	case "or":
		return "||", true
	default:
		return "", false
	}
}
