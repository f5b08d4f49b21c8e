// Package format renders amounts and dates the way the dashboard, invoices
// and reminder emails display them (en-US conventions).
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DateLayout = "1/2/2006"

var printer = message.NewPrinter(language.AmericanEnglish)

// Amount formats d with thousands separators and up to two fraction digits,
// for example 50000 -> "50,000" and 1234.5 -> "1,234.5".
// The digits come from the decimal itself, so large amounts keep every digit.
func Amount(d decimal.Decimal) string {
	d = d.Round(2)
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	frac = strings.TrimRight(frac, "0")

	out := groupThousands(whole)
	if frac != "" {
		out += "." + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// Money is Amount with a leading dollar sign.
func Money(d decimal.Decimal) string {
	return "$" + Amount(d)
}

func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return printer.Sprint(number.Decimal(n))
	}
	// Beyond int64 range.
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}
