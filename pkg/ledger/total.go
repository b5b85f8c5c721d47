// pkg/ledger/total.go

package ledger

import (
	"strings"

	"github.com/quotation-billing/pkg/invoice"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GrandTotal sums the amounts of items. An empty slice totals zero.
// Nothing is rounded here; rounding to cents happens at display time.
func GrandTotal(items []invoice.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// SumAmounts totals amounts that arrive as text, e.g. copied from a
// spreadsheet column. Values that are not numbers are logged and skipped.
// It returns the total and how many values were skipped.
func SumAmounts(logger *zap.Logger, amounts []string) (decimal.Decimal, int) {
	if logger == nil {
		logger = zap.NewNop()
	}

	total := decimal.Zero
	skipped := 0
	for i, raw := range amounts {
		value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
		if err != nil {
			logger.Warn("skipping non-numeric amount",
				zap.Int("index", i),
				zap.String("value", raw),
				zap.Error(err),
			)
			skipped++
			continue
		}
		total = total.Add(value)
	}
	return total, skipped
}
