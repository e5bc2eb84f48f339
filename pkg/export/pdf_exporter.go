package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin      = 10.0
	pdfHeaderWidth = 38.0
	pdfRowHeight   = 16.0
	pdfLineHeight  = 5.0
)

// PDFExporter renders a GridSheet as a landscape timetable page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderGrid draws the sheet with filled course cells.
func (e *PDFExporter) RenderGrid(sheet GridSheet) ([]byte, error) {
	if err := sheet.validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pdfMargin - pdfHeaderWidth) / float64(len(sheet.ColumnHeaders))

	if sheet.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(sheet.Title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(236, 240, 241)
	pdf.CellFormat(pdfHeaderWidth, 8, tr(sheet.CornerLabel), "1", 0, "C", true, 0, "")
	for _, header := range sheet.ColumnHeaders {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range sheet.Rows {
		x, y := pdf.GetXY()
		pdf.SetFont("Arial", "B", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFillColor(248, 249, 250)
		pdf.CellFormat(pdfHeaderWidth, pdfRowHeight, tr(row.Header), "1", 0, "C", true, 0, "")

		for i := range sheet.ColumnHeaders {
			cellX := x + pdfHeaderWidth + float64(i)*colWidth
			var cell GridCell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			drawPDFCell(pdf, tr, cellX, y, colWidth, cell)
		}
		pdf.SetXY(x, y+pdfRowHeight)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawPDFCell(pdf *gofpdf.Fpdf, tr func(string) string, x, y, width float64, cell GridCell) {
	style := "D"
	if r, g, b, ok := parseHexColor(cell.Fill); ok {
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		style = "FD"
	} else {
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Rect(x, y, width, pdfRowHeight, style)
	if cell.Empty() {
		return
	}

	pdf.SetXY(x, y+1)
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(width, pdfLineHeight, tr(cell.Title), "", 2, "C", false, 0, "")
	pdf.SetFont("Arial", "", 6)
	pdf.CellFormat(width, pdfLineHeight, tr(cell.Detail), "", 2, "C", false, 0, "")
}
