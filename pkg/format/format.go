// Package format provides display formatting shared by the insight
// composer, the dashboard templates, and the JSON layer.
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency formats a value as Indonesian Rupiah with thousands separators,
// e.g. 1234567.8 -> "Rp 1,234,568".
func Currency(value float64) string {
	return "Rp " + GroupInt(value)
}

// GroupInt rounds a value to a whole number and inserts thousands
// separators. Negative values keep their sign.
func GroupInt(value float64) string {
	d := decimal.NewFromFloat(value).Round(0)

	s := d.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Percent formats a value as a percentage with one decimal place.
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// SignedPercent formats a value as an explicitly signed percentage.
func SignedPercent(value float64) string {
	return fmt.Sprintf("%+.1f%%", value)
}
