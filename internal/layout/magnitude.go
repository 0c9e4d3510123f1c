package layout

import (
	"math"
	"strconv"
	"strings"
)

var magnitudes = []string{"", "K", "M", "B", "T"}

// MagnitudeShorthand abbreviates a number by its thousands groups:
// "1500000" with unit "g" becomes "1.5Mg". Values keep at most two
// decimals with trailing zeros trimmed. Input that is not a number is
// returned as is with the unit appended.
func MagnitudeShorthand(numeric, unit string) string {
	trimmed := strings.TrimSpace(numeric)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return numeric + unit
	}

	groups := digitGroups(trimmed)
	if groups >= len(magnitudes) {
		groups = len(magnitudes) - 1
	}

	scaled := value / math.Pow(1000, float64(groups))
	return formatDecimal(scaled) + magnitudes[groups] + unit
}

// digitGroups counts the complete thousands groups above the ones place of
// the integer part.
func digitGroups(numeric string) int {
	digits := strings.TrimLeft(numeric, "+-")
	if i := strings.IndexAny(digits, ".eE"); i >= 0 {
		if strings.ContainsAny(digits, "eE") {
			// exponent notation: count from the parsed value instead
			value, _ := strconv.ParseFloat(numeric, 64)
			digits = strconv.FormatFloat(math.Abs(value), 'f', 0, 64)
		} else {
			digits = digits[:i]
		}
	}
	digits = strings.TrimLeft(digits, "0")
	if len(digits) == 0 {
		return 0
	}
	return (len(digits) - 1) / 3
}

// formatDecimal formats like the "#.##" pattern
func formatDecimal(v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
