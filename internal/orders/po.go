package orders

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
)

// POObjectKey returns the storage key for an order's purchase order document.
// Re-sending overwrites the previous render at the same key.
func POObjectKey(order *models.Order) string {
	return fmt.Sprintf("purchase_orders/%s.pdf", order.Code)
}

// BuildPurchaseOrder renders the PO document sent to the manufacturer. The
// order must carry its Manufacturer and Product associations.
func BuildPurchaseOrder(order *models.Order, issuedAt time.Time) ([]byte, error) {
	if order.Manufacturer == nil {
		return nil, fmt.Errorf("order %s missing manufacturer", order.ID)
	}
	if order.Product == nil {
		return nil, fmt.Errorf("order %s missing product", order.ID)
	}

	unitPrice := decimal.NewFromInt(int64(order.Product.PriceCents)).Div(decimal.NewFromInt(100))
	total := unitPrice.Mul(decimal.NewFromInt(int64(order.TotalUnits)))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Purchase Order "+order.Code, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "Purchase Order", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, order.Code+"  -  issued "+issuedAt.UTC().Format("Jan 2, 2006"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Supplier", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, order.Manufacturer.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, order.Manufacturer.Email, "", 1, "L", false, 0, "")
	if order.Manufacturer.Address != nil {
		pdf.CellFormat(0, 6, *order.Manufacturer.Address, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	item := order.Product.Name
	if order.Product.SKU != nil {
		item += " (" + *order.Product.SKU + ")"
	}
	pdf.CellFormat(90, 8, item, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, strconv.Itoa(order.TotalUnits), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$"+unitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$"+total.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 8, "Order total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$"+total.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering purchase order pdf: %w", err)
	}
	return buf.Bytes(), nil
}
