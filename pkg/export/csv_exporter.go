package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders documents as CSV. Sheets are separated by an empty record.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	// UTF-8 byte order mark.
	buf.WriteString("\ufeff")
	writer := csv.NewWriter(buf)
	writer.Comma = ';'

	for i, sheet := range doc.Sheets {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return nil, fmt.Errorf("write csv separator: %w", err)
			}
		}
		for _, line := range sheetPreamble(sheet) {
			if err := writer.Write([]string{line}); err != nil {
				return nil, fmt.Errorf("write csv preamble: %w", err)
			}
		}
		if err := writer.Write(sheet.Columns); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for _, row := range sheet.Rows {
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
		for _, line := range sheet.Summary {
			if err := writer.Write([]string{line}); err != nil {
				return nil, fmt.Errorf("write csv summary: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetPreamble(sheet Sheet) []string {
	lines := make([]string, 0, len(sheet.Subtitle)+1)
	if sheet.Title != "" {
		lines = append(lines, sheet.Title)
	}
	return append(lines, sheet.Subtitle...)
}
