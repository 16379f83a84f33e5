package common

import (
	"math"
	"strings"

	money "github.com/Rhymond/go-money"
)

// brlFormatter formats amounts using the BRL currency metadata (thousand ".",
// decimal ",") with a space between the symbol and the number, matching
// Brazilian brokerage statements.
var brlFormatter = newBRLFormatter()

func newBRLFormatter() *money.Formatter {
	cur := money.GetCurrency(money.BRL)
	return &money.Formatter{
		Fraction: cur.Fraction,
		Decimal:  cur.Decimal,
		Thousand: cur.Thousand,
		Grapheme: cur.Grapheme,
		Template: "$ 1",
	}
}

// FormatBRL renders a monetary value in Brazilian real display format,
// e.g. 1234.56 -> "R$ 1.234,56". Negative values render as "-R$ 1.234,56".
func FormatBRL(value float64) string {
	cents := int64(math.Round(value * 100))
	return brlFormatter.Format(cents)
}

// FormatPercent renders a percentage with two decimals and a comma separator,
// e.g. 12.5 -> "12,50%".
func FormatPercent(value float64) string {
	s := strings.TrimPrefix(FormatBRL(math.Abs(value)), "R$ ")
	if value < 0 {
		s = "-" + s
	}
	return s + "%"
}
