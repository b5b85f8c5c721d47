// pkg/register/register.go

package register

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Issued describes a document that was handed out for download. Line
// items themselves are never stored.
type Issued struct {
	ID           snowflake.ID    `json:"id"`
	FileName     string          `json:"file_name"`
	CustomerName string          `json:"customer_name"`
	ItemCount    int             `json:"item_count"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	SizeBytes    int             `json:"size_bytes"`
	ArchiveURL   string          `json:"archive_url,omitempty"`
	IssuedAt     time.Time       `json:"issued_at"`
}

// Register records issued documents.
type Register interface {
	Record(ctx context.Context, doc Issued) error
	Recent(ctx context.Context, limit int) ([]Issued, error)
}

// IDs hands out ordered identifiers for issued documents.
type IDs struct {
	node *snowflake.Node
}

// NewIDs creates an id generator for the given node number (0-1023).
func NewIDs(node int64) (*IDs, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &IDs{node: n}, nil
}

// Next returns a new id.
func (g *IDs) Next() snowflake.ID {
	return g.node.Generate()
}

// MemoryRegister keeps issued documents in memory.
type MemoryRegister struct {
	mu   sync.Mutex
	docs []Issued
}

// NewMemoryRegister returns an empty in-memory register.
func NewMemoryRegister() *MemoryRegister {
	return &MemoryRegister{docs: make([]Issued, 0)}
}

func (m *MemoryRegister) Record(ctx context.Context, doc Issued) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = append(m.docs, doc)
	return nil
}

// Recent returns up to limit documents, newest first.
func (m *MemoryRegister) Recent(ctx context.Context, limit int) ([]Issued, error) {
	m.mu.Lock()
	copied := make([]Issued, len(m.docs))
	copy(copied, m.docs)
	m.mu.Unlock()

	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].IssuedAt.After(copied[j].IssuedAt)
	})
	if limit > 0 && len(copied) > limit {
		copied = copied[:limit]
	}
	return copied, nil
}

var _ Register = (*MemoryRegister)(nil)
