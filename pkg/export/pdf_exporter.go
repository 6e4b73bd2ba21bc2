package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 190.0
	firstColumn = 0.36
)

// PDFExporter renders each sheet of a document on its own A4 page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF document.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, sheet := range doc.Sheets {
		pdf.AddPage()
		writeLetterhead(pdf, tr, sheet.Letterhead)

		if sheet.Title != "" {
			pdf.SetFont("Arial", "B", 13)
			pdf.CellFormat(0, 9, tr(sheet.Title), "", 1, "C", false, 0, "")
		}
		pdf.SetFont("Arial", "", 10)
		for _, line := range sheet.Subtitle {
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)

		widths := columnWidths(len(sheet.Columns))
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, header := range sheet.Columns {
			pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range sheet.Rows {
			for i, value := range row {
				align := "C"
				if i == 0 || i == len(row)-1 {
					align = "L"
				}
				pdf.CellFormat(widths[i], 7, tr(fit(pdf, tr, value, widths[i])), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		for _, line := range sheet.Summary {
			pdf.CellFormat(0, 7, tr(line), "", 1, "R", false, 0, "")
		}

		writeSignatures(pdf, tr, sheet.Signatures)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLetterhead(pdf *gofpdf.Fpdf, tr func(string) string, lines []string) {
	if len(lines) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, tr(lines[0]), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range lines[1:] {
		pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
	}
	y := pdf.GetY() + 2
	pdf.Line(10, y, 10+pageWidth, y)
	pdf.Ln(5)
}

func writeSignatures(pdf *gofpdf.Fpdf, tr func(string) string, signatures []Signature) {
	if len(signatures) == 0 {
		return
	}
	pdf.Ln(10)
	width := pageWidth / float64(len(signatures))
	pdf.SetFont("Arial", "B", 10)
	for _, sig := range signatures {
		pdf.CellFormat(width, 6, tr(sig.Title), "", 0, "C", false, 0, "")
	}
	pdf.Ln(20)
	pdf.SetFont("Arial", "", 10)
	for _, sig := range signatures {
		pdf.CellFormat(width, 6, tr(sig.Name), "", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

// columnWidths gives the first column a wider share and splits the rest evenly.
func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = pageWidth
		return widths
	}
	widths[0] = pageWidth * firstColumn
	rest := (pageWidth - widths[0]) / float64(n-1)
	for i := 1; i < n; i++ {
		widths[i] = rest
	}
	return widths
}

func fit(pdf *gofpdf.Fpdf, tr func(string) string, value string, width float64) string {
	runes := []rune(value)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes)))+2 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
