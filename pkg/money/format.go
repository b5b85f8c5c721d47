// pkg/money/format.go

package money

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer  = message.NewPrinter(language.English)
	thousand = big.NewInt(1000)
)

// Format renders an amount as #,##0.00. This is the only place amounts
// are rounded to cents.
func Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Abs().Shift(2).IntPart()

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%02d", sign, group(whole.Abs().BigInt()), cents)
}

// group prints a non-negative whole number with thousands separators.
// Values past int64 are split into groups of three before printing.
func group(n *big.Int) string {
	if n.IsInt64() {
		return printer.Sprintf("%d", n.Int64())
	}
	q, r := new(big.Int).QuoRem(n, thousand, new(big.Int))
	return group(q) + fmt.Sprintf(",%03d", r.Int64())
}

// Quantity prints a quantity without trailing zeros, e.g. 2 or 1.5.
func Quantity(q decimal.Decimal) string {
	return q.String()
}
