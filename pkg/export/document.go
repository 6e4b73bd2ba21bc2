package export

import "fmt"

// Format identifies an output encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Valid reports whether the format has a renderer.
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatCSV, FormatXLSX:
		return true
	}
	return false
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Signature is a name block printed at the bottom of a sheet.
type Signature struct {
	Title string
	Name  string
}

// Sheet is one printable page: letterhead lines, a titled table and
// summary lines below it.
type Sheet struct {
	Name       string
	Letterhead []string
	Title      string
	Subtitle   []string
	Columns    []string
	Rows       [][]string
	Summary    []string
	Signatures []Signature
}

// Document groups sheets rendered into a single file.
type Document struct {
	Sheets []Sheet
}

// Renderer encodes a document into bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

func validate(doc Document) error {
	if len(doc.Sheets) == 0 {
		return fmt.Errorf("document has no sheets")
	}
	for i, sheet := range doc.Sheets {
		if len(sheet.Columns) == 0 {
			return fmt.Errorf("sheet %d has no columns", i)
		}
		for j, row := range sheet.Rows {
			if len(row) != len(sheet.Columns) {
				return fmt.Errorf("sheet %d row %d has %d cells, want %d", i, j, len(row), len(sheet.Columns))
			}
		}
	}
	return nil
}
