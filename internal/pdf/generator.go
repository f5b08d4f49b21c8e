package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/amc-manager/internal/format"
	"github.com/nurpe/amc-manager/internal/model"
)

const lineItem = "Annual Maintenance Contract"

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(doc model.InvoiceDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(doc.Number(), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	top := pdf.GetY()
	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(100, 7, tr(doc.Issuer.Name), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(100, 5, tr(doc.Issuer.AddressLine1), "", 1, "L", false, 0, "")
	pdf.CellFormat(100, 5, tr(doc.Issuer.AddressLine2), "", 1, "L", false, 0, "")
	bottom := pdf.GetY()

	pdf.SetY(top)
	addMeta(pdf, g.fontName, "", doc.Number())
	addMeta(pdf, g.fontName, "Date Issued", format.Date(doc.IssuedAt))
	addMeta(pdf, g.fontName, "Due Date", format.Date(doc.Contract.RenewalDate))
	if pdf.GetY() < bottom {
		pdf.SetY(bottom)
	}
	pdf.Ln(8)

	pdf.SetFont(g.fontName, "B", 9)
	pdf.CellFormat(0, 5, "BILL TO", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "B", 12)
	name, contact := billTo(doc.Customer)
	pdf.CellFormat(0, 7, tr(name), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, tr(contact), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	widths := []float64{130, 50}
	drawTableRow(pdf, g.fontName, []string{"Description", "Amount"}, widths, true)
	period := fmt.Sprintf("%s (Period: %s - %s)", lineItem, format.Date(doc.Contract.RenewalDate), format.Date(doc.PeriodEnd()))
	drawTableRow(pdf, g.fontName, []string{period, format.Money(doc.Contract.AMCAmount)}, widths, false)
	pdf.Ln(4)

	subtotal := doc.Contract.AMCAmount
	tax := subtotal.Mul(decimal.NewFromFloat(doc.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax)

	addTotal(pdf, g.fontName, "Subtotal", format.Money(subtotal), false)
	addTotal(pdf, g.fontName, fmt.Sprintf("Tax (%s%%)", format.Amount(decimal.NewFromFloat(doc.TaxRate))), "$"+tax.StringFixed(2), false)
	addTotal(pdf, g.fontName, "Total", format.Money(total), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addMeta(pdf *gofpdf.Fpdf, fontName, label, value string) {
	pdf.SetX(115)
	if label != "" {
		pdf.SetFont(fontName, "", 9)
		pdf.CellFormat(80, 5, label, "", 1, "R", false, 0, "")
		pdf.SetX(115)
	}
	pdf.SetFont(fontName, "B", 10)
	pdf.CellFormat(80, 6, value, "", 1, "R", false, 0, "")
}

func billTo(customer *model.Customer) (name, contact string) {
	if customer == nil {
		return model.UnknownCustomerName, "-"
	}
	name = safeValue(customer.Name)
	switch {
	case strings.TrimSpace(customer.Email) != "":
		contact = customer.Email
	default:
		contact = safeValue(customer.Phone)
	}
	return name, contact
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func addTotal(pdf *gofpdf.Fpdf, fontName, label, value string, emphasize bool) {
	style, size := "", 10.0
	if emphasize {
		style, size = "B", 13
	}
	pdf.SetX(105)
	pdf.SetFont(fontName, style, size)
	pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, value, "", 1, "R", false, 0, "")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
