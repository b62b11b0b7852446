package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

// BuildReport renders the human-readable PDF summary of one generation run.
func BuildReport(view BatchView) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Batch Generation Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Batch Generation Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated "+view.GeneratedAt.UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	reportRow(pdf, "Batch ID", view.BatchID.String())
	reportRow(pdf, "Order", view.OrderCode)
	reportRow(pdf, "Product", view.ProductName)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Quantities", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	reportRow(pdf, "Ordered units", strconv.Itoa(view.TotalUnits))
	reportRow(pdf, "Buffer units", strconv.Itoa(view.BufferUnits))
	reportRow(pdf, "Total unique QR codes", strconv.Itoa(view.TotalUniqueQRs))
	reportRow(pdf, "Master cartons", strconv.Itoa(view.MastersCount))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Packaging configuration", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	reportRow(pdf, "Units per master", strconv.Itoa(view.UnitsPerMaster))
	reportRow(pdf, "Buffer per 1000 units", strconv.Itoa(view.BufferPer1000))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func reportRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}
