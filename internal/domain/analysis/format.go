package analysis

import (
	"math"
	"strconv"
	"strings"
)

// formatAmount renders v with the given number of decimals and thousands
// separators, matching spreadsheet-style money/hour columns.
func formatAmount(v float64, decimals int) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	if neg {
		return "-" + intPart + fracPart
	}
	return intPart + fracPart
}

// FormatUSD renders a cost as "USD 1,234.56".
func FormatUSD(v float64) string {
	return "USD " + formatAmount(v, 2)
}

// FormatDollar renders a cost as "$1,234.56".
func FormatDollar(v float64) string {
	return "$" + formatAmount(v, 2)
}

// FormatHours renders an hour quantity as "1,234.000".
func FormatHours(v float64) string {
	return formatAmount(v, 3)
}

// FormatRate renders an hourly rate as "$0.0464".
func FormatRate(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 4, 64)
}

// FormatPercent renders a percentage with one decimal, no sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(math.Abs(v), 'f', 1, 64) + "%"
}
