// pkg/render/fields.go

package render

import (
	"strings"

	"github.com/quotation-billing/pkg/invoice"
)

// field is one conditional line of a details block.
type field struct {
	value string
	label string // printed as "label: value" when set
	multi bool   // free text that may span several lines
}

func (f field) text() string {
	if f.label == "" {
		return f.value
	}
	return f.label + ": " + f.value
}

// present drops fields whose value is blank so no empty line is drawn.
func present(fields ...field) []field {
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		f.value = strings.TrimSpace(f.value)
		if f.value == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (l Layout) partyFields(p invoice.PartyDetails, withName bool) []field {
	fields := []field{
		{value: p.Address, multi: true},
		{value: p.Phone, label: l.PhoneLabel},
		{value: p.Email, label: l.EmailLabel},
		{value: p.TaxID, label: l.TaxIDLabel},
	}
	if withName {
		fields = append([]field{{value: p.Name}}, fields...)
	}
	return present(fields...)
}

func (l Layout) bankFields(b invoice.BankDetails) []field {
	return present(
		field{value: b.BankName, label: l.BankNameLabel},
		field{value: b.AccountNumber, label: l.AccountLabel},
		field{value: b.RoutingCode, label: l.RoutingLabel},
	)
}
