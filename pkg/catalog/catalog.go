// pkg/catalog/catalog.go

package catalog

import (
	"errors"
	"strings"
)

// Other is the picklist entry that switches the form to a free-text
// description.
const Other = "Other"

// ErrUnknownProduct is returned when a product is not in the catalog.
var ErrUnknownProduct = errors.New("unknown product")

// DefaultProducts is the picklist offered when none is configured.
var DefaultProducts = []string{
	"Product A",
	"Product B",
	"Product C",
	"Product D",
	"Product E",
}

// Catalog is the fixed list of products offered for new line items.
type Catalog struct {
	products []string
	index    map[string]string
}

// New builds a catalog from product names. Blank and duplicate names
// (case-insensitive) are dropped; order is preserved.
func New(products []string) *Catalog {
	c := &Catalog{index: make(map[string]string, len(products))}
	for _, p := range products {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if p == "" || strings.EqualFold(p, Other) {
			continue
		}
		if _, ok := c.index[key]; ok {
			continue
		}
		c.index[key] = p
		c.products = append(c.products, p)
	}
	return c
}

// Options lists the picklist as shown to the user: Other first, then the
// products.
func (c *Catalog) Options() []string {
	return append([]string{Other}, c.products...)
}

// Products returns the configured products.
func (c *Catalog) Products() []string {
	return append([]string(nil), c.products...)
}

// Describe resolves the description for a new line item. An empty product
// or Other means the custom text is used as is.
func (c *Catalog) Describe(product, custom string) (string, error) {
	product = strings.TrimSpace(product)
	if product == "" || strings.EqualFold(product, Other) {
		return strings.TrimSpace(custom), nil
	}
	name, ok := c.index[strings.ToLower(product)]
	if !ok {
		return "", ErrUnknownProduct
	}
	return name, nil
}
