package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() Document {
	return Document{Sheets: []Sheet{
		{
			Name:       "Ama Kouamé",
			Letterhead: []string{"Institut Biblique", "BP 63 Yamoussoukro"},
			Title:      "BULLETIN DE NOTES - 1er SEMESTRE",
			Subtitle:   []string{"Étudiant: Kouamé Ama"},
			Columns:    []string{"Matière", "Coef.", "Moyenne", "Enseignant", "Appréciations"},
			Rows: [][]string{
				{"Éthique", "2", "15.00", "Jean Yao", "Bien"},
				{"Grec", "1", "11.50", "Non assigné", "-"},
			},
			Summary:    []string{"Moyenne du semestre: 13.83", "Mention: Assez Bien"},
			Signatures: []Signature{{Title: "Directeur Académique", Name: "Dr. KOUASSI Yao"}},
		},
	}}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	text := string(payload)
	assert.True(t, strings.HasPrefix(text, "\ufeff"))
	assert.Contains(t, text, "Matière;Coef.;Moyenne;Enseignant;Appréciations")
	assert.Contains(t, text, "Éthique;2;15.00;Jean Yao;Bien")
	assert.Contains(t, text, "Moyenne du semestre: 13.83")
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	doc := sampleDocument()
	doc.Sheets[0].Rows = append(doc.Sheets[0].Rows, []string{"only-one"})

	_, err := NewCSVExporter().Render(doc)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	doc := sampleDocument()
	doc.Sheets = append(doc.Sheets, doc.Sheets[0])

	payload, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	doc := sampleDocument()
	doc.Sheets = append(doc.Sheets, doc.Sheets[0])

	payload, err := NewXLSXExporter().Render(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Ama Kouamé", "Ama Kouamé (2)"}, f.GetSheetList())
	title, err := f.GetCellValue("Ama Kouamé", "A3")
	require.NoError(t, err)
	assert.Equal(t, "BULLETIN DE NOTES - 1er SEMESTRE", title)
	header, err := f.GetCellValue("Ama Kouamé", "B6")
	require.NoError(t, err)
	assert.Equal(t, "Coef.", header)
}

func TestEmptyDocumentIsRejected(t *testing.T) {
	_, err := NewXLSXExporter().Render(Document{})
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.True(t, FormatXLSX.Valid())
	assert.False(t, Format("docx").Valid())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}
