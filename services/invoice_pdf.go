package services

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

// RenderInvoicePDF writes a single-page A4 invoice.
func RenderInvoicePDF(w io.Writer, inv models.Invoice, biz config.Business) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.Number, false)
	pdf.SetAuthor(biz.Name, false)
	pdf.AddPage()

	// core fonts are cp1252; the translator maps £ and € correctly
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(amount float64) string {
		return tr(utils.FormatCurrency(amount, inv.Currency))
	}

	// header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(15, 118, 110)
	pdf.CellFormat(110, 10, tr(biz.Name), "", 0, "L", false, 0, "")
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(80, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{biz.Address, biz.Phone, biz.Email, biz.Website} {
		if line != "" {
			pdf.CellFormat(110, 5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	// invoice meta and bill-to
	top := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(110, 5, tr(inv.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(110, 5, tr(inv.CustomerEmail), "", 1, "L", false, 0, "")
	if inv.BillingAddress != "" {
		pdf.MultiCell(110, 5, tr(inv.BillingAddress), "", "L", false)
	}
	bottom := pdf.GetY()

	pdf.SetXY(120, top)
	meta := [][2]string{
		{"Invoice no.", inv.Number},
		{"Issued", inv.IssuedAt.Format("02 Jan 2006")},
		{"Due", inv.DueAt.Format("02 Jan 2006")},
		{"Status", inv.Status},
	}
	for _, kv := range meta {
		pdf.SetX(120)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(30, 6, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(50, 6, tr(kv[1]), "", 1, "R", false, 0, "")
	}
	if pdf.GetY() < bottom {
		pdf.SetY(bottom)
	}
	pdf.Ln(8)

	// items
	widths := []float64{100, 20, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 253, 250)
	for i, h := range []string{"Description", "Qty", "Unit price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(widths[0], 7, tr(item.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, money(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(item.Total), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// totals
	totals := [][2]string{
		{"Subtotal", money(inv.Subtotal)},
		{fmt.Sprintf("Tax (%.2f%%)", inv.TaxRate), money(inv.Tax)},
	}
	for _, kv := range totals {
		pdf.CellFormat(155, 6, kv[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, kv[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, money(inv.Total), "T", 1, "R", false, 0, "")

	if inv.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(190, 5, tr(inv.Notes), "", "L", false)
	}

	pdf.SetY(-25)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(190, 5, tr("Thank you for choosing "+biz.Name+"."), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return nil
}
