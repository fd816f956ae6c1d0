package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const pdfFont = "Helvetica"

// Header fill colour of every table.
var headerFill = [3]int{103, 80, 164}

// PDFRenderer draws a Document onto A4 pages at the positions Build chose.
type PDFRenderer struct{}

func (PDFRenderer) Extension() string   { return ".pdf" }
func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Render(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreationDate(doc.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, el := range page.Elements {
			switch el.Kind {
			case ElementText:
				pdf.SetFont(pdfFont, "", el.Text.FontSize)
				pdf.SetTextColor(0, 0, 0)
				pdf.Text(el.Text.X, el.Text.Y, tr(el.Text.Content))
			case ElementTable:
				drawTable(pdf, tr, el.Table)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, t *Table) {
	width := (PageWidth - 2*t.X) / float64(len(t.Head))

	pdf.SetFont(pdfFont, "B", 10)
	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetXY(t.X, t.StartY)
	for _, h := range t.Head {
		pdf.CellFormat(width, HeaderHeight, tr(h), "1", 0, "C", true, 0, "")
	}

	pdf.SetFont(pdfFont, "", 10)
	pdf.SetTextColor(0, 0, 0)
	y := t.StartY + HeaderHeight
	for _, row := range t.Rows {
		pdf.SetXY(t.X, y)
		for _, cell := range row {
			pdf.CellFormat(width, RowHeight, tr(cell), "1", 0, "L", false, 0, "")
		}
		y += RowHeight
	}
}
