// Package report renders capital results for people: aligned text tables,
// CSV and XLSX workbooks.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats v as US dollars with thousands separators, e.g.
// "$1,234.56".
func Currency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + printer.Sprintf("$%.2f", d.InexactFloat64())
}

// Compact formats a dollar amount with a magnitude suffix.
func Compact(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// Cents renders v rounded to two decimals for machine-readable exports.
func Cents(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent renders a decimal weight with one decimal place.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func optPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return Percent(*v)
}
