package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rancher/grafana2moira/internal/grafana"
)

func TestRenderEvaluator(t *testing.T) {
	tests := []struct {
		name      string
		evaluator grafana.Evaluator
		expected  string
		ok        bool
	}{
		{"greater than", grafana.Evaluator{Type: "gt", Params: []float64{80}}, "t1 > 80", true},
		{"lower than", grafana.Evaluator{Type: "lt", Params: []float64{0.25}}, "t1 < 0.25", true},
		{"outside range", grafana.Evaluator{Type: "outside_range", Params: []float64{5, 10}}, "(t1 < 5 && t1 > 10)", true},
		{"within range sorts params", grafana.Evaluator{Type: "within_range", Params: []float64{10, 5}}, "5 >= t1 >= 10", true},
		{"no value", grafana.Evaluator{Type: "no_value", Params: []float64{}}, "", false},
		{"unknown", grafana.Evaluator{Type: "eq", Params: []float64{1}}, "", false},
		{"missing params", grafana.Evaluator{Type: "within_range", Params: []float64{1}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := renderEvaluator(tt.evaluator, "t1")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRenderEvaluatorKeepsParamsUntouched(t *testing.T) {
	params := []float64{10, 5}
	renderEvaluator(grafana.Evaluator{Type: "within_range", Params: params}, "t1")
	assert.Equal(t, []float64{10, 5}, params)
}

func TestRenderReducer(t *testing.T) {
	tests := []struct {
		reducer  string
		expected string
		ok       bool
	}{
		{"last", "m", true},
		{"avg", "movingAverage(m, '5m')", true},
		{"min", "movingMin(m, '5m')", true},
		{"max", "movingMax(m, '5m')", true},
		{"sum", "movingSum(m, '5m')", true},
		{"median", "movingMedian(m, '5m')", true},
		{"diff", "diffSeries(m, timeShift(m, '5m'))", true},
		{"percent_diff", "asPercent(diffSeries(m, timeShift(m, '5m')), timeShift(m, '5m'))", true},
		{"diff_abs", "absolute(diffSeries(m, timeShift(m, '5m')), timeShift(m, '5m'))", true},
		{"percent_diff_abs", "asPercent(absolute(diffSeries(m, timeShift(m, '5m')), timeShift(m, '5m')))", true},
		{"count", "m", false},
		{"", "m", false},
	}

	for _, tt := range tests {
		t.Run(tt.reducer, func(t *testing.T) {
			got, ok := renderReducer(tt.reducer, "m", "5m")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRenderOperator(t *testing.T) {
	op, ok := renderOperator("and")
	assert.True(t, ok)
	assert.Equal(t, "&&", op)

	op, ok = renderOperator("or")
	assert.True(t, ok)
	assert.Equal(t, "||", op)

	op, ok = renderOperator("")
	assert.False(t, ok)
	assert.Empty(t, op)
}
