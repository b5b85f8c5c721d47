// pkg/invoice/invoice.go

package invoice

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// LineItem represents a single row of the quotation table.
type LineItem struct {
	SequenceNumber int             `json:"sr_no"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
}

// PartyDetails is the shape shared by the company and the customer.
type PartyDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	TaxID   string `json:"tax_id"`
}

// BankDetails holds the payment instructions printed under the table.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	RoutingCode   string `json:"routing_code"`
}

// Details groups everything on the document that is not a line item.
type Details struct {
	Company  PartyDetails `json:"company"`
	Customer PartyDetails `json:"customer"`
	Bank     BankDetails  `json:"bank"`
}

// Validate checks the details a document cannot be issued without. The
// company name is the only required party field.
func (d Details) Validate() error {
	if strings.TrimSpace(d.Company.Name) == "" {
		return &ValidationError{Field: "company.name", Reason: "must not be blank"}
	}
	return nil
}

// Snapshot is a point-in-time copy of a ledger plus its party and bank
// details. The renderer only ever sees a Snapshot.
type Snapshot struct {
	Details
	Items      []LineItem      `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// FileName suggests a download name such as invoice_20261015_Acme_Corp.pdf.
func FileName(customerName string, on time.Time) string {
	return "invoice_" + on.Format("20060102") + "_" + sanitizeName(customerName) + ".pdf"
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "customer"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}
