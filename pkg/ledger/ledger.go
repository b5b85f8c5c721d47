// pkg/ledger/ledger.go

package ledger

import (
	"strings"
	"sync"

	"github.com/quotation-billing/pkg/invoice"
	"github.com/shopspring/decimal"
)

// Ledger is the ordered list of line items for one quotation.
// It owns validation and renumbering so callers never splice the list
// themselves. A Ledger is safe for concurrent use but is meant to belong
// to exactly one session.
type Ledger struct {
	mu    sync.Mutex
	items []invoice.LineItem
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{items: make([]invoice.LineItem, 0)}
}

// Add validates and appends a new item. Amount is computed here and
// nowhere else.
func (l *Ledger) Add(description string, quantity, rate decimal.Decimal) (invoice.LineItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return invoice.LineItem{}, &invoice.ValidationError{Field: "description", Reason: "must not be blank"}
	}
	if !quantity.IsPositive() {
		return invoice.LineItem{}, &invoice.ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	if rate.IsNegative() {
		return invoice.LineItem{}, &invoice.ValidationError{Field: "rate", Reason: "must not be negative"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	item := invoice.LineItem{
		SequenceNumber: len(l.items) + 1,
		Description:    description,
		Quantity:       quantity,
		Rate:           rate,
		Amount:         quantity.Mul(rate),
	}
	l.items = append(l.items, item)
	return item, nil
}

// RemoveAt deletes the item currently shown at sequenceNumber and
// renumbers everything after it.
func (l *Ledger) RemoveAt(sequenceNumber int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := sequenceNumber - 1
	if idx < 0 || idx >= len(l.items) {
		return &invoice.NotFoundError{SequenceNumber: sequenceNumber}
	}

	l.items = append(l.items[:idx], l.items[idx+1:]...)
	for i := range l.items {
		l.items[i].SequenceNumber = i + 1
	}
	return nil
}

// Clear drops every item.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.items = l.items[:0]
	l.mu.Unlock()
}

// Len reports the number of items.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Snapshot returns a copy of the items in ledger order.
func (l *Ledger) Snapshot() []invoice.LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := make([]invoice.LineItem, len(l.items))
	copy(copied, l.items)
	return copied
}

// Capture freezes the current items together with details into a
// snapshot ready for rendering.
func (l *Ledger) Capture(details invoice.Details) invoice.Snapshot {
	items := l.Snapshot()
	return invoice.Snapshot{
		Details:    details,
		Items:      items,
		GrandTotal: GrandTotal(items),
	}
}
