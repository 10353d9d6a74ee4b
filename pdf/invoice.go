package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
)

// Restaurant is the letterhead printed on every invoice.
type Restaurant struct {
	Name    string
	Address string
	Phone   string
}

type InvoiceRenderer struct {
	restaurant Restaurant
	vatRate    decimal.Decimal
}

func NewInvoiceRenderer(restaurant Restaurant, vatRate decimal.Decimal) *InvoiceRenderer {
	return &InvoiceRenderer{restaurant: restaurant, vatRate: vatRate}
}

// Split returns the amount before tax and the tax included in a
// tax-inclusive total.
func (r *InvoiceRenderer) Split(total decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	net := total.Div(decimal.NewFromInt(1).Add(r.vatRate)).Round(2)
	return net, total.Sub(net)
}

// Render expects the invoice with its order, lines, dishes, client and table loaded.
func (r *InvoiceRenderer) Render(invoice *models.Invoice) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(fmt.Sprintf("Invoice %06d", invoice.ID), true)
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, tr(r.restaurant.Name), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	if r.restaurant.Address != "" {
		doc.CellFormat(0, 5, tr(r.restaurant.Address), "", 1, "L", false, 0, "")
	}
	if r.restaurant.Phone != "" {
		doc.CellFormat(0, 5, tr("Tel: "+r.restaurant.Phone), "", 1, "L", false, 0, "")
	}
	doc.Ln(8)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, fmt.Sprintf("INVOICE No %06d", invoice.ID), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "Date: "+invoice.Date.UTC().Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")

	order := invoice.Order
	if order != nil {
		doc.CellFormat(0, 5, fmt.Sprintf("Order: %d", order.ID), "", 1, "L", false, 0, "")
		if order.Table != nil {
			doc.CellFormat(0, 5, fmt.Sprintf("Table: %d", order.Table.Number), "", 1, "L", false, 0, "")
		}
		if order.Client != nil {
			doc.CellFormat(0, 5, tr("Client: "+order.Client.FullName()), "", 1, "L", false, 0, "")
		}
	}
	doc.Ln(6)

	widths := []float64{90, 20, 35, 35}
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, header := range []string{"Dish", "Qty", "Unit price", "Subtotal"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		doc.CellFormat(widths[i], 7, header, "1", 0, align, true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	if order != nil {
		for _, line := range order.Lines {
			name := fmt.Sprintf("Dish #%d", line.DishID)
			if line.Dish != nil {
				name = line.Dish.Name
			}
			doc.CellFormat(widths[0], 6, tr(name), "1", 0, "L", false, 0, "")
			doc.CellFormat(widths[1], 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
			doc.CellFormat(widths[2], 6, utils.FormatMoney(line.UnitPrice), "1", 0, "R", false, 0, "")
			doc.CellFormat(widths[3], 6, utils.FormatMoney(line.Subtotal()), "1", 0, "R", false, 0, "")
			doc.Ln(-1)
		}
	}
	doc.Ln(4)

	net, vat := r.Split(invoice.TotalAmount)
	label := widths[0] + widths[1] + widths[2]
	totals := []struct {
		name  string
		value decimal.Decimal
	}{
		{"Subtotal excl. VAT", net},
		{fmt.Sprintf("VAT %s%%", r.vatRate.Mul(decimal.NewFromInt(100)).String()), vat},
		{"Total incl. VAT", invoice.TotalAmount},
	}
	for i, t := range totals {
		if i == len(totals)-1 {
			doc.SetFont("Helvetica", "B", 11)
		}
		doc.CellFormat(label, 6, t.name, "", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, utils.FormatMoney(t.value), "", 1, "R", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 10)
	method := "-"
	if invoice.PaymentMethod != nil {
		method = string(*invoice.PaymentMethod)
	}
	doc.CellFormat(0, 5, "Payment method: "+method, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, "Status: "+string(invoice.Status), "", 1, "L", false, 0, "")
	doc.Ln(10)
	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, 5, tr("Thank you for your visit"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
