// pkg/invoice/document.go

package invoice

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"sigs.k8s.io/yaml"
)

// ItemInput is an item as typed in by a user, before it has been through
// a ledger. Product, when set, names an entry of the product catalog and
// takes precedence over Description.
type ItemInput struct {
	Product     string          `json:"product,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Document is the on-disk form of a quotation, accepted as YAML or JSON.
//
//	company:
//	  name: SAMARTH TRADERS
//	customer:
//	  name: Acme Corp
//	items:
//	  - product: Product A
//	    quantity: 2
//	    rate: 10
type Document struct {
	Details
	Items []ItemInput `json:"items"`
}

// LoadDocument reads a quotation file from path.
func LoadDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return ParseDocument(raw)
}

// ParseDocument decodes a YAML or JSON quotation.
func ParseDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}
