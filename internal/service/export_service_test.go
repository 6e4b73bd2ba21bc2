package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/bulletin"
	"github.com/noah-isme/bulletin-api/internal/models"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
	"github.com/noah-isme/bulletin-api/pkg/export"
	"github.com/noah-isme/bulletin-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	return NewExportService(datasetStub{data: fixtureDataset()}, store, signer, ExportConfig{APIPrefix: "/api/v1/"}, nil)
}

func amaCard(period bulletin.Period) bulletin.ReportCard {
	data := fixtureDataset()
	return bulletin.BuildReportCard(data.InputFor(data.Students[0]), period)
}

func rowBySubject(rows [][]string, subject string) []string {
	for _, row := range rows {
		if row[0] == subject {
			return row
		}
	}
	return nil
}

func TestReportCardSheet(t *testing.T) {
	sheet := ReportCardSheet(amaCard(bulletin.Semester1))

	assert.Equal(t, "Ama Kouamé", sheet.Name)
	assert.Equal(t, "BULLETIN DE NOTES - 1er SEMESTRE", sheet.Title)
	assert.Equal(t, []string{"Année académique: 2024-2025", "Étudiant: Ama Kouamé", "Classe: 1ère année"}, sheet.Subtitle)
	assert.Equal(t, []string{"Institut Biblique", "BP 63 Yamoussoukro", "Tél: 0102030405"}, sheet.Letterhead)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{"Ancien Testament", "Pentateuque", "Jean Yao", "2", "15.00", "Bon travail"}, rowBySubject(sheet.Rows, "Ancien Testament"))
	assert.Equal(t, []string{"Langues", "Grec I", "Non assigné", "1", "10.00", "-"}, rowBySubject(sheet.Rows, "Langues"))
	assert.Equal(t, []string{"Moyenne du semestre: 13.33/20", "Mention: Bien"}, sheet.Summary)
	require.Len(t, sheet.Signatures, 2)
	assert.Equal(t, "Dr. Pokou", sheet.Signatures[1].Name)
}

func TestAnnualDocumentAppendsAnnualAverage(t *testing.T) {
	data := fixtureDataset()
	report := bulletin.BuildAnnualReport(data.InputFor(data.Students[0]))

	doc := AnnualDocument(report)
	require.Len(t, doc.Sheets, 2)
	summary := doc.Sheets[1].Summary
	assert.Contains(t, summary, "Moyenne annuelle: 6.67/20")
	assert.Contains(t, summary, "Mention annuelle: Insuffisant")
}

func TestClassBulletinsDocumentEmptyClass(t *testing.T) {
	doc := ClassBulletinsDocument(fixtureDataset(), "3", "", bulletin.Semester1)

	require.Len(t, doc.Sheets, 1)
	assert.Equal(t, []string{"Aucun étudiant"}, doc.Sheets[0].Summary)
	assert.NotEmpty(t, doc.Sheets[0].Columns)
}

func TestClassSummaryDocument(t *testing.T) {
	doc := ClassSummaryDocument(fixtureDataset(), "1", "")

	require.Len(t, doc.Sheets, 1)
	rows := doc.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Bamba", "Koffi", "1ère année", "12.00", "0.00", "0.00", "6.00", "Insuffisant"}, rows[0])
	assert.Equal(t, "Effectif: 2", doc.Sheets[0].Summary[0])
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatPDF, format)

	format, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, format)

	_, err = ParseFormat("docx")
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErrors.FromError(err).Code)
}

func TestExportServiceRenderReportCardCSV(t *testing.T) {
	svc := newExportServiceForTest(t)
	card := amaCard(bulletin.Semester1)

	file, err := svc.RenderReportCard(&card, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "bulletin_Kouame_Ama_semester1.csv", file.Filename)
	assert.Equal(t, export.FormatCSV.ContentType(), file.ContentType)
	body := string(file.Payload)
	assert.True(t, strings.HasPrefix(body, "\ufeff"))
	assert.Contains(t, body, "Ancien Testament;Pentateuque;Jean Yao;2;15.00;Bon travail")
	assert.Contains(t, body, "Mention: Bien")
}

func TestExportServiceRenderAnnualPDF(t *testing.T) {
	svc := newExportServiceForTest(t)
	data := fixtureDataset()
	report := bulletin.BuildAnnualReport(data.InputFor(data.Students[0]))

	file, err := svc.RenderAnnualReport(&report, export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "bulletin_Kouame_Ama_annuel.pdf", file.Filename)
	assert.True(t, strings.HasPrefix(string(file.Payload), "%PDF"))
}

func TestExportServiceGenerateStoresAndSigns(t *testing.T) {
	svc := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job1",
		Type:   models.ReportTypeClassSummary,
		Params: models.ReportJobParams{Class: "all", Format: "csv"},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.RelativePath, "job1/class_summary_classeall_"))
	assert.Equal(t, "/api/v1/export/"+result.Token, result.URL)

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job1", jobID)
	assert.Equal(t, result.RelativePath, relPath)

	location, err := svc.Path(relPath)
	require.NoError(t, err)
	content, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Diallo;Awa;2ème année")

	require.NoError(t, svc.Delete(relPath))
	_, err = os.Stat(location)
	assert.True(t, os.IsNotExist(err))
}

func TestExportServiceGenerateClassBulletins(t *testing.T) {
	svc := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job2",
		Type:   models.ReportTypeClassBulletins,
		Params: models.ReportJobParams{Class: "1", Period: "semester1", Format: "xlsx"},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, result.Format)
	assert.Contains(t, result.RelativePath, "_classe1_semester1_")
}

func TestExportServiceGenerateRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest(t)

	_, err := svc.Generate(context.Background(), &models.ReportJob{ID: "job3", Type: models.ReportTypeClassSummary, Params: models.ReportJobParams{Class: "1", Format: "odt"}})
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Kouame_Ama", sanitizeFilename("Kouamé Ama"))
	assert.Equal(t, "na", sanitizeFilename("../"))
	assert.Len(t, sanitizeFilename(strings.Repeat("a", 80)), 60)
}
