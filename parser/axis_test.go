package parser_test

import (
	"testing"

	"staffing-calculator/metrics"
	"staffing-calculator/parser"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestParseAxis(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected []float64
	}{
		"Simple":          {input: "10,20,30", expected: []float64{10, 20, 30}},
		"DropsWord":       {input: "10,abc,20", expected: []float64{10, 20}},
		"Empty":           {input: "", expected: []float64{}},
		"Whitespace":      {input: " 10 , 20 ", expected: []float64{10, 20}},
		"Decimals":        {input: "12.5,.5,7.", expected: []float64{12.5, 0.5, 7}},
		"DropsNegative":   {input: "-5,5", expected: []float64{5}},
		"DropsTwoDots":    {input: "1.2.3,4", expected: []float64{4}},
		"DropsExponent":   {input: "1e3,2", expected: []float64{2}},
		"DropsLoneDot":    {input: ".,3", expected: []float64{3}},
		"OnlyGarbage":     {input: "abc,,x", expected: []float64{}},
		"KeepsDuplicates": {input: "20,20", expected: []float64{20, 20}},
		"KeepsZero":       {input: "0", expected: []float64{0}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.ParseAxis(tt.input))
		})
	}
}

func TestParseAxis_CountsDroppedTokens(t *testing.T) {
	before := testutil.ToFloat64(metrics.AxisTokensDroppedTotal)
	parser.ParseAxis("10,abc,20,-1")
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.AxisTokensDroppedTotal))
}
