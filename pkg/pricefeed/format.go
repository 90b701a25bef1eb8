package pricefeed

import (
	"strings"

	"github.com/shopspring/decimal"
)

var coinDecimals = map[string]int32{
	"pepe":     8,
	"dogecoin": 4,
}

const defaultDecimals = 2

// FormatPrice renders a USD amount the way the dashboard shows it, e.g.
// "$60,123.45" for bitcoin or "$0.00001234" for pepe.
func FormatPrice(price float64, coinId string) string {
	decimals, ok := coinDecimals[coinId]
	if !ok {
		decimals = defaultDecimals
	}
	d := decimal.NewFromFloat(price).Round(decimals)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(decimals)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if fracPart != "" {
		fracPart = "." + fracPart
	}
	return sign + "$" + groupThousands(intPart) + fracPart
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
