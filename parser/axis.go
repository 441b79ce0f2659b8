package parser

import (
	"strconv"
	"strings"

	"staffing-calculator/metrics"
)

// ParseAxis parses a comma-separated list of scenario axis values such as
// "10,20,30". Tokens that are not plain non-negative decimals (digits with
// at most one '.') are dropped without error, so "10,abc,20" yields
// [10 20] and "" yields an empty axis.
func ParseAxis(raw string) []float64 {
	values := make([]float64, 0)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !isDecimal(token) {
			metrics.AxisTokensDroppedTotal.Inc()
			continue
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			metrics.AxisTokensDroppedTotal.Inc()
			continue
		}
		values = append(values, v)
	}
	return values
}

// isDecimal reports whether s is ASCII digits with at most one '.'.
func isDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
