package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// XLSXExporter renders each sheet of a document as a worksheet.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render creates the workbook bytes.
func (e *XLSXExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	used := make(map[string]int, len(doc.Sheets))
	for i, sheet := range doc.Sheets {
		name := uniqueSheetName(sheet.Name, i, used)
		idx, err := f.NewSheet(name)
		if err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, name, sheet, titleStyle, headerStyle); err != nil {
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet, titleStyle, headerStyle int) error {
	lastCol, _ := excelize.ColumnNumberToName(len(sheet.Columns))
	row := 1

	writeLine := func(value string, style int) error {
		c := cell("A", row)
		if err := f.SetCellValue(name, c, value); err != nil {
			return fmt.Errorf("write cell %s: %w", c, err)
		}
		if len(sheet.Columns) > 1 {
			if err := f.MergeCell(name, c, cell(lastCol, row)); err != nil {
				return fmt.Errorf("merge row %d: %w", row, err)
			}
		}
		if style != 0 {
			if err := f.SetCellStyle(name, c, c, style); err != nil {
				return fmt.Errorf("style cell %s: %w", c, err)
			}
		}
		row++
		return nil
	}

	for _, line := range sheet.Letterhead {
		if err := writeLine(line, 0); err != nil {
			return err
		}
	}
	if sheet.Title != "" {
		if err := writeLine(sheet.Title, titleStyle); err != nil {
			return err
		}
	}
	for _, line := range sheet.Subtitle {
		if err := writeLine(line, 0); err != nil {
			return err
		}
	}
	row++

	for i, header := range sheet.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(name, cell(col, row), header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(name, cell("A", row), cell(lastCol, row), headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	row++

	for _, values := range sheet.Rows {
		for i, value := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetCellValue(name, cell(col, row), value); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
		row++
	}

	row++
	for _, line := range sheet.Summary {
		if err := writeLine(line, 0); err != nil {
			return err
		}
	}
	for _, sig := range sheet.Signatures {
		if err := writeLine(fmt.Sprintf("%s: %s", sig.Title, sig.Name), 0); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(name, "A", "A", 34); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if len(sheet.Columns) > 1 {
		second, _ := excelize.ColumnNumberToName(2)
		if err := f.SetColWidth(name, second, lastCol, 18); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func uniqueSheetName(raw string, index int, used map[string]int) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(raw))
	if name == "" || strings.EqualFold(name, "Sheet1") {
		name = fmt.Sprintf("Feuille %d", index+1)
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	base := name
	for used[strings.ToLower(name)] > 0 {
		suffix := fmt.Sprintf(" (%d)", used[strings.ToLower(base)]+1)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		name = string(runes) + suffix
		used[strings.ToLower(base)]++
	}
	used[strings.ToLower(name)]++
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
