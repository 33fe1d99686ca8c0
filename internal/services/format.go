package services

import (
	"strconv"
	"strings"
)

// FormatPrice renders a price with thousands separators and no decimals
// when the value is whole, e.g. 1250000 -> "1,250,000".
func FormatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
