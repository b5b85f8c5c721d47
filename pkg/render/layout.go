// pkg/render/layout.go

package render

import (
	"bytes"
	"math"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/quotation-billing/pkg/invoice"
	"github.com/quotation-billing/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	pageMargin   = 10.0
	bottomMargin = 15.0

	lineHeight      = 6.0  // one wrapped line of a description
	minRowHeight    = 10.0 // body rows are never shorter than this
	headerRowHeight = 10.0
	fontFamily      = "Arial"
	noItemsNotice   = "No items added"
)

type rgb struct{ r, g, b int }

var (
	lightGreen = rgb{220, 240, 220}
	darkGreen  = rgb{34, 139, 34}
	black      = rgb{0, 0, 0}
	evenRow    = rgb{245, 255, 245}
	oddRow     = rgb{255, 255, 255}
)

// Column widths in mm: Sr No., Description, Qty, Rate, Amount.
var (
	columnWidths  = [5]float64{15, 95, 20, 30, 30}
	columnHeaders = [5]string{"Sr No.", "Description", "Qty", "Rate", "Amount"}
	columnAligns  = [5]string{"C", "L", "C", "R", "R"}
)

func tableWidth() float64 {
	var w float64
	for _, c := range columnWidths {
		w += c
	}
	return w
}

// pageWriter draws the document sections onto one gofpdf document.
type pageWriter struct {
	pdf         *gofpdf.Fpdf
	layout      Layout
	tr          func(string) string
	decorations decorations
	contentTop  float64 // where content begins below the decorations
}

func (p *pageWriter) textColor(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *pageWriter) fillColor(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }

// decorate runs at the start of every page, including pages opened by an
// automatic break. It leaves the cursor where content may begin.
func (p *pageWriter) decorate() {
	pdf := p.pdf
	if bg := p.decorations.background; bg != nil {
		pdf.ImageOptions(bg.path, 0, 0, bg.width, bg.height, false, gofpdf.ImageOptions{}, 0, "")
	}
	top := pageMargin
	if logo := p.decorations.logo; logo != nil {
		pdf.ImageOptions(logo.path, pageMargin, pageMargin, logo.width, logo.height, false, gofpdf.ImageOptions{}, 0, "")
		top += logo.height + 2
	}
	p.contentTop = top
	pdf.SetXY(pageMargin, top)
}

func (p *pageWriter) company(c invoice.PartyDetails) {
	pdf := p.pdf
	p.fillColor(lightGreen)
	p.textColor(darkGreen)
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, p.tr(c.Name), "", 1, "R", true, 0, "")

	p.textColor(black)
	pdf.SetFont(fontFamily, "", 10)
	for _, f := range p.layout.partyFields(c, false) {
		if f.multi {
			pdf.MultiCell(0, 5, p.tr(f.text()), "", "R", false)
			continue
		}
		pdf.CellFormat(0, 5, p.tr(f.text()), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func (p *pageWriter) title() {
	pdf := p.pdf
	pdf.SetFont(fontFamily, "B", 24)
	p.textColor(darkGreen)
	pdf.CellFormat(0, 15, p.tr(p.layout.Title), "", 1, "C", false, 0, "")

	w, _ := pdf.GetPageSize()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.1)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, w-pageMargin, y)
	pdf.Ln(6)
}

func (p *pageWriter) date(on time.Time) {
	p.textColor(black)
	p.pdf.SetFont(fontFamily, "", 10)
	p.pdf.CellFormat(0, 7, "Date: "+on.Format("2006-01-02"), "", 1, "R", false, 0, "")
	p.pdf.Ln(4)
}

func (p *pageWriter) billTo(c invoice.PartyDetails) {
	p.heading("Bill To:")
	p.lines(p.layout.partyFields(c, true))
	p.pdf.Ln(8)
}

func (p *pageWriter) bank(b invoice.BankDetails) {
	p.heading("Bank Details:")
	p.lines(p.layout.bankFields(b))
	p.pdf.Ln(10)
}

func (p *pageWriter) closing() {
	p.textColor(black)
	p.pdf.SetFont(fontFamily, "I", 10)
	p.pdf.CellFormat(0, 10, p.tr(p.layout.ClosingNote), "", 1, "C", false, 0, "")
}

func (p *pageWriter) heading(text string) {
	p.pdf.SetFont(fontFamily, "B", 12)
	p.textColor(darkGreen)
	p.pdf.CellFormat(0, 8, text, "", 1, "", false, 0, "")
}

func (p *pageWriter) lines(fields []field) {
	p.textColor(black)
	p.pdf.SetFont(fontFamily, "", 10)
	for _, f := range fields {
		if f.multi {
			p.pdf.MultiCell(0, 5, p.tr(f.text()), "", "L", false)
			continue
		}
		p.pdf.CellFormat(0, 5, p.tr(f.text()), "", 1, "", false, 0, "")
	}
}

func (p *pageWriter) tableHeader() {
	pdf := p.pdf
	pdf.SetFont(fontFamily, "B", 10)
	p.textColor(black)
	p.fillColor(lightGreen)
	pdf.SetDrawColor(0, 0, 0)
	for i, h := range columnHeaders {
		pdf.CellFormat(columnWidths[i], headerRowHeight, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

// continueTable opens a new page and repeats the table header on it.
func (p *pageWriter) continueTable() {
	p.pdf.AddPage()
	p.tableHeader()
	p.pdf.SetFont(fontFamily, "", 10)
}

// room is the height left above the bottom margin on the current page.
func (p *pageWriter) room() float64 {
	_, pageH := p.pdf.GetPageSize()
	return pageH - bottomMargin - p.pdf.GetY()
}

// freshRoom is the height a continuation page offers below its header.
func (p *pageWriter) freshRoom() float64 {
	_, pageH := p.pdf.GetPageSize()
	return pageH - bottomMargin - p.contentTop - headerRowHeight
}

func rowHeight(lines int) float64 {
	return math.Max(float64(lines)*lineHeight, minRowHeight)
}

func (p *pageWriter) items(items []invoice.LineItem) {
	if p.room() < headerRowHeight+minRowHeight {
		p.pdf.AddPage()
	}
	p.tableHeader()
	p.pdf.SetFont(fontFamily, "", 10)

	if len(items) == 0 {
		p.pdf.CellFormat(tableWidth(), minRowHeight, noItemsNotice, "1", 1, "C", false, 0, "")
		return
	}
	for i, item := range items {
		p.itemRow(i, item)
	}
}

// itemRow draws one body row. The description wraps; the other cells
// keep their text on the description's first line and every cell is as
// tall as the tallest one. A row that fits on a page is never split. A
// row taller than a page starts where it is and carries on under a
// repeated header, with the other cells left blank after its first part.
func (p *pageWriter) itemRow(idx int, item invoice.LineItem) {
	lines := p.pdf.SplitLines([]byte(p.tr(item.Description)), columnWidths[1])
	if len(lines) == 0 {
		lines = [][]byte{nil}
	}
	if h := rowHeight(len(lines)); h > p.room() && h <= p.freshRoom() {
		p.continueTable()
	}

	values := [5]string{
		strconv.Itoa(item.SequenceNumber),
		"",
		money.Quantity(item.Quantity),
		money.Format(item.Rate),
		money.Format(item.Amount),
	}
	for len(lines) > 0 {
		fit := int(math.Floor(p.room() / lineHeight))
		if p.room() < minRowHeight || fit < 1 {
			p.continueTable()
			fit = int(math.Floor(p.room() / lineHeight))
			if fit < 1 {
				fit = 1
			}
		}
		if fit > len(lines) {
			fit = len(lines)
		}
		p.rowPart(idx, lines[:fit], values)
		lines = lines[fit:]
		values = [5]string{}
	}
}

// rowPart draws the description lines that share one page, plus the
// other cells' values.
func (p *pageWriter) rowPart(idx int, lines [][]byte, values [5]string) {
	pdf := p.pdf
	rowH := rowHeight(len(lines))
	band := lineHeight
	if len(lines) == 1 {
		band = rowH
	}

	if idx%2 == 0 {
		p.fillColor(evenRow)
	} else {
		p.fillColor(oddRow)
	}
	p.textColor(black)

	x, y := pageMargin, pdf.GetY()
	for i, w := range columnWidths {
		pdf.Rect(x, y, w, rowH, "DF")
		pdf.SetXY(x, y)
		if i == 1 {
			pdf.MultiCell(w, band, string(bytes.Join(lines, []byte("\n"))), "", "L", false)
		} else {
			pdf.CellFormat(w, band, values[i], "", 0, columnAligns[i], false, 0, "")
		}
		x += w
	}
	pdf.SetXY(pageMargin, y+rowH)
}

func (p *pageWriter) grandTotal(total decimal.Decimal) {
	pdf := p.pdf
	pdf.SetFont(fontFamily, "B", 12)
	p.textColor(darkGreen)
	p.fillColor(lightGreen)
	pdf.CellFormat(tableWidth()-columnWidths[4], 10, "Grand Total:", "1", 0, "R", true, 0, "")
	pdf.CellFormat(columnWidths[4], 10, money.Format(total), "1", 1, "R", true, 0, "")
	pdf.Ln(8)
}
