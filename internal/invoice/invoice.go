// Package invoice computes bill totals and renders pharmacy invoices as PDF.
package invoice

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// GSTRate is the flat GST shown on the invoice on top of the billed total.
const GSTRate = 0.05

// Number formats a bill id as printed on the invoice.
func Number(dispenseID int64) string {
	return fmt.Sprintf("INV-%05d", dispenseID)
}

// Filename is the archived PDF name of a bill.
func Filename(dispenseID int64) string {
	return fmt.Sprintf("invoice_%d.pdf", dispenseID)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals returns the bill total (discount then tax applied per line) and the tax part of it.
func ComputeTotals(lines []model.DispenseItem) (total, tax float64) {
	for _, l := range lines {
		net := l.UnitPrice * float64(l.Qty) * (1 - l.DiscountPct/100)
		total += net * (1 + l.TaxPct/100)
		tax += net * l.TaxPct / 100
	}
	return Round2(total), Round2(tax)
}

// Bill is everything printed on one invoice.
type Bill struct {
	Hospital    string
	Dispense    *model.Dispense
	Patient     *model.Patient
	GeneratedAt time.Time
	// Font is an optional UTF-8 TrueType font. Without it the core Helvetica font is used and
	// text is translated to cp1252, so characters outside that code page print as '.'.
	Font []byte
}

const utf8Family = "invoice"

// page wraps the PDF with the chosen font family and its text encoder.
type page struct {
	pdf    *fpdf.Fpdf
	family string
	text   func(string) string
}

func newPage(font []byte) *page {
	pdf := fpdf.New("P", "mm", "A4", "")
	if len(font) > 0 {
		pdf.AddUTF8FontFromBytes(utf8Family, "", font)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", font)
		return &page{pdf: pdf, family: utf8Family, text: func(s string) string { return s }}
	}
	return &page{pdf: pdf, family: "Helvetica", text: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (p *page) font(style string, size float64) {
	p.pdf.SetFont(p.family, style, size)
}

func (p *page) cell(w, h float64, txt, border string, ln int, align string, fill bool) {
	p.pdf.CellFormat(w, h, p.text(txt), border, ln, align, fill, 0, "")
}

// Render writes the invoice PDF for b to w.
func Render(w io.Writer, b Bill) error {
	if b.Dispense == nil {
		return fmt.Errorf("invoice: dispense is nil")
	}
	d := b.Dispense

	pg := newPage(b.Font)
	pdf := pg.pdf
	pdf.SetMargins(20, 20, 20)
	pdf.SetCreationDate(b.GeneratedAt)
	pdf.SetTitle(Number(d.ID), false)
	pdf.AddPage()

	pg.font("B", 16)
	pg.cell(0, 9, b.Hospital+" Pharmacy", "", 1, "C", false)
	pdf.Ln(4)

	payment := d.PaymentMode
	if payment == "" {
		payment = "cash"
	}
	pharmacist := d.Pharmacist
	if pharmacist == "" {
		pharmacist = "-"
	}
	pg.font("", 10)
	keyValueTable(pg, [][2]string{
		{"Invoice No", Number(d.ID)},
		{"Date", b.GeneratedAt.Format("02-Jan-2006 15:04")},
		{"Payment Mode", payment},
		{"Pharmacist", pharmacist},
	})
	pdf.Ln(4)

	if p := b.Patient; p != nil {
		gender := p.Gender
		if gender == "" {
			gender = "-"
		}
		keyValueTable(pg, [][2]string{
			{"Patient Name", p.Name},
			{"Patient UID", p.UID},
			{"Gender", gender},
		})
		pdf.Ln(4)
	}

	itemTable(pg, d.Items)
	pdf.Ln(4)

	subtotal := d.TotalAmount
	gst := subtotal * GSTRate
	pg.font("B", 10)
	for _, row := range [][2]string{
		{"Subtotal", money(subtotal)},
		{"GST (5%)", money(gst)},
		{"Grand Total", money(subtotal + gst)},
	} {
		pg.cell(42, 7, row[0], "1", 0, "L", false)
		pg.cell(35, 7, row[1], "1", 1, "R", false)
	}

	pdf.Ln(8)
	pg.font("", 10)
	pg.cell(0, 6, "Thank you for visiting! Get well soon.", "", 1, "L", false)
	pdf.Ln(6)
	pg.cell(0, 6, "Authorized Signatory ___________________", "", 1, "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("invoice: layout: %w", err)
	}
	return pdf.Output(w)
}

// RenderBytes renders the invoice into memory.
func RenderBytes(b Bill) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func keyValueTable(pg *page, rows [][2]string) {
	for _, r := range rows {
		pg.cell(35, 7, r[0], "1", 0, "L", false)
		pg.cell(105, 7, r[1], "1", 1, "L", false)
	}
}

var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 8, "C"},
	{"Item", 52, "L"},
	{"Batch", 20, "C"},
	{"EXP", 20, "C"},
	{"Qty", 12, "C"},
	{"MRP (Rs.)", 20, "R"},
	{"Tax %", 14, "R"},
	{"Total (Rs.)", 24, "R"},
}

func itemTable(pg *page, items []model.DispenseItem) {
	pdf := pg.pdf
	pg.font("B", 9)
	pdf.SetFillColor(173, 216, 230)
	for _, c := range itemColumns {
		pg.cell(c.width, 7, c.title, "1", 0, "C", true)
	}
	pdf.Ln(-1)

	pg.font("", 9)
	for i, it := range items {
		cells := []string{
			strconv.Itoa(i + 1),
			orDash(it.Label),
			orDash(it.BatchNo),
			orDash(it.ExpiryDate),
			strconv.Itoa(it.Qty),
			fmt.Sprintf("%.2f", it.UnitPrice),
			fmt.Sprintf("%.1f", it.TaxPct),
			fmt.Sprintf("%.2f", it.LineTotal()),
		}
		for j, c := range itemColumns {
			pg.cell(c.width, 7, cells[j], "1", 0, c.align, false)
		}
		pdf.Ln(-1)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func money(v float64) string {
	return fmt.Sprintf("Rs.%.2f", v)
}
