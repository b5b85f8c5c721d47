// pkg/render/renderer.go

package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/quotation-billing/pkg/invoice"
	"go.uber.org/zap"
)

// Layout holds the fixed wording of the document.
type Layout struct {
	PageSize      string `yaml:"page_size"` // a gofpdf size name such as A4 or Letter
	Title         string `yaml:"title"`
	ClosingNote   string `yaml:"closing_note"`
	PhoneLabel    string `yaml:"phone_label"`
	EmailLabel    string `yaml:"email_label"`
	TaxIDLabel    string `yaml:"tax_id_label"`
	BankNameLabel string `yaml:"bank_name_label"`
	AccountLabel  string `yaml:"account_label"`
	RoutingLabel  string `yaml:"routing_label"`
}

// DefaultLayout returns the wording used by the shop's paper quotations.
func DefaultLayout() Layout {
	return Layout{
		PageSize:      "A4",
		Title:         "QUOTATION / BILL",
		ClosingNote:   "Thank you for your business!",
		PhoneLabel:    "Phone",
		EmailLabel:    "Email",
		TaxIDLabel:    "GSTIN",
		BankNameLabel: "Bank Name",
		AccountLabel:  "Current A/C No.",
		RoutingLabel:  "IFSC",
	}
}

// withDefaults fills blank wording from DefaultLayout.
func (l Layout) withDefaults() Layout {
	def := DefaultLayout()
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Layout{
		PageSize:      pick(l.PageSize, def.PageSize),
		Title:         pick(l.Title, def.Title),
		ClosingNote:   pick(l.ClosingNote, def.ClosingNote),
		PhoneLabel:    pick(l.PhoneLabel, def.PhoneLabel),
		EmailLabel:    pick(l.EmailLabel, def.EmailLabel),
		TaxIDLabel:    pick(l.TaxIDLabel, def.TaxIDLabel),
		BankNameLabel: pick(l.BankNameLabel, def.BankNameLabel),
		AccountLabel:  pick(l.AccountLabel, def.AccountLabel),
		RoutingLabel:  pick(l.RoutingLabel, def.RoutingLabel),
	}
}

// Validate reports wording gofpdf cannot lay out, such as an unknown
// page size.
func (l Layout) Validate() error {
	l = l.withDefaults()
	if pdf := gofpdf.New("P", "mm", l.PageSize, ""); pdf.Err() {
		return fmt.Errorf("page size %q: %w", l.PageSize, pdf.Error())
	}
	return nil
}

// Options are the per-call inputs that are not part of the snapshot.
// Empty image paths mean the layer is not drawn.
type Options struct {
	BackgroundPath string
	LogoPath       string
	Date           time.Time
}

// Renderer turns snapshots into PDF documents.
type Renderer struct {
	layout   Layout
	logger   *zap.Logger
	compress bool
}

// NewRenderer creates a renderer. A nil logger discards asset warnings.
func NewRenderer(layout Layout, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		layout:   layout.withDefaults(),
		logger:   logger,
		compress: true,
	}
}

// SetCompression toggles stream compression of generated documents.
func (r *Renderer) SetCompression(on bool) {
	r.compress = on
}

// Render produces the complete document for snap. It either returns the
// whole document or a *RenderFault; decoration problems are logged and
// the affected layer skipped.
func (r *Renderer) Render(snap invoice.Snapshot, opts Options) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("render panicked", zap.Any("panic", rec))
			out, err = nil, &RenderFault{Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", r.layout.PageSize, "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(date)
	pdf.SetTitle(r.layout.Title, true)
	pdf.SetCreator("quotation-billing", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)

	page := &pageWriter{
		pdf:    pdf,
		layout: r.layout,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}
	page.decorations = r.loadDecorations(pdf, opts)
	pdf.SetHeaderFuncMode(page.decorate, false)

	pdf.AddPage()
	page.company(snap.Company)
	page.title()
	page.date(date)
	page.billTo(snap.Customer)
	page.items(snap.Items)
	page.grandTotal(snap.GrandTotal)
	page.bank(snap.Bank)
	page.closing()

	if pdf.Err() {
		r.logger.Error("render failed", zap.Error(pdf.Error()))
		return nil, &RenderFault{Err: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("render output failed", zap.Error(err))
		return nil, &RenderFault{Err: err}
	}

	r.logger.Debug("invoice rendered",
		zap.Int("items", len(snap.Items)),
		zap.Int("pages", pdf.PageNo()),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}
