// Package pdf renders printable documents with go-pdf/fpdf.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
)

const margin = 20.0

// RenderOrder writes a one page A4 order sheet: company header, order number and date,
// client, specifications, observations, total value and status.
func RenderOrder(w io.Writer, company config.Company, order model.Order, clientName string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, margin)
	doc.SetTitle(fmt.Sprintf("Pedido %s", order.OrderNumber), true)
	doc.AddPage()

	// Core fonts are cp1252; accented Portuguese text needs translating.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := doc.GetPageSize()
	contentW := pageW - 2*margin

	// Header
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(contentW, 10, tr(company.Name), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, line := range []string{company.Tagline, company.Address, company.Phone, company.Email} {
		if line == "" {
			continue
		}
		doc.CellFormat(contentW, 5, tr(line), "", 1, "L", false, 0, "")
	}

	doc.Ln(8)
	doc.Line(margin, doc.GetY(), pageW-margin, doc.GetY())
	doc.Ln(8)

	// Order
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(contentW, 8, tr("PEDIDO "+order.OrderNumber), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(contentW, 7, "Data: "+order.CreatedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")

	section(doc, tr, contentW, "DADOS DO CLIENTE:")
	doc.CellFormat(contentW, 7, tr("Cliente: "+clientName), "", 1, "L", false, 0, "")

	section(doc, tr, contentW, "ESPECIFICAÇÕES DO PEDIDO:")
	specs := [][2]string{
		{"Material:", order.Material},
		{"Espessura:", order.Thickness},
		{"Dimensões:", fmt.Sprintf("%s x %s mm", formatFloat(order.Width), formatFloat(order.Length))},
		{"Quantidade:", fmt.Sprintf("%d peças", order.Quantity)},
	}
	for _, spec := range specs {
		doc.CellFormat(40, 8, tr(spec[0]), "", 0, "L", false, 0, "")
		doc.CellFormat(contentW-40, 8, tr(spec[1]), "", 1, "L", false, 0, "")
	}

	if order.Observations != nil && *order.Observations != "" {
		section(doc, tr, contentW, "OBSERVAÇÕES:")
		doc.MultiCell(contentW, 6, tr(*order.Observations), "", "L", false)
	}

	doc.Ln(10)
	doc.Line(margin, doc.GetY(), pageW-margin, doc.GetY())
	doc.Ln(8)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(contentW, 8, "VALOR TOTAL: "+FormatBRL(order.Value), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(contentW, 8, tr("Status: "+order.Status), "", 1, "L", false, 0, "")

	// Footer
	doc.SetY(pageH - 30)
	doc.SetFont("Helvetica", "I", 10)
	doc.CellFormat(contentW, 5, tr("Este documento foi gerado automaticamente pelo sistema."), "", 1, "L", false, 0, "")

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("pdf: write order %s: %w", order.OrderNumber, err)
	}

	return nil
}

func section(doc *fpdf.Fpdf, tr func(string) string, width float64, title string) {
	doc.Ln(8)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(width, 7, tr(title), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatBRL formats d as Brazilian currency, e.g. "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, sb.String(), frac)
}
