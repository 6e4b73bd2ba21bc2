package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/noah-isme/bulletin-api/internal/bulletin"
	"github.com/noah-isme/bulletin-api/internal/models"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
	"github.com/noah-isme/bulletin-api/pkg/export"
	"github.com/noah-isme/bulletin-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) (string, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures a stored export and its signed download link.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       export.Format
	ExpiresAt    time.Time
}

// RenderedFile is an export rendered in memory.
type RenderedFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService turns bulletins into documents, renders them and stores class exports.
type ExportService struct {
	data      datasetLoader
	storage   fileStorage
	renderers map[export.Format]export.Renderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService with the PDF, CSV and XLSX renderers.
func NewExportService(data datasetLoader, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		data:    data,
		storage: store,
		renderers: map[export.Format]export.Renderer{
			export.FormatPDF:  export.NewPDFExporter(),
			export.FormatCSV:  export.NewCSVExporter(),
			export.FormatXLSX: export.NewXLSXExporter(),
		},
		signer: signer,
		logger: logger,
		cfg:    cfg,
	}
}

// ParseFormat maps a query value to a format. An empty value selects PDF.
func ParseFormat(raw string) (export.Format, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return export.FormatPDF, nil
	}
	format := export.Format(raw)
	if !format.Valid() {
		return "", appErrors.ErrUnsupportedFormat
	}
	return format, nil
}

// RenderReportCard renders a single bulletin.
func (s *ExportService) RenderReportCard(card *bulletin.ReportCard, format export.Format) (*RenderedFile, error) {
	doc := export.Document{Sheets: []export.Sheet{ReportCardSheet(*card)}}
	return s.render(doc, format, bulletinFilename(card.Student, string(card.Period), format))
}

// RenderAnnualReport renders both semester bulletins followed by the annual average.
func (s *ExportService) RenderAnnualReport(report *bulletin.AnnualReport, format export.Format) (*RenderedFile, error) {
	return s.render(AnnualDocument(*report), format, bulletinFilename(report.Student, "annuel", format))
}

func (s *ExportService) render(doc export.Document, format export.Format, filename string) (*RenderedFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.ErrUnsupportedFormat
	}
	payload, err := renderer.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render bulletin")
	}
	return &RenderedFile{Filename: filename, ContentType: format.ContentType(), Payload: payload}, nil
}

// Generate builds the class export described by job, stores it and signs a download link.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	format := export.Format(job.Params.Format)
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	data, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	var doc export.Document
	switch job.Type {
	case models.ReportTypeClassBulletins:
		period, err := bulletin.ParsePeriod(job.Params.Period)
		if err != nil {
			return nil, err
		}
		doc = ClassBulletinsDocument(data, job.Params.Class, job.Params.Search, period)
	case models.ReportTypeClassSummary:
		doc = ClassSummaryDocument(data, job.Params.Class, job.Params.Search)
	default:
		return nil, fmt.Errorf("unsupported report type %s", job.Type)
	}

	payload, err := renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.Type, err)
	}
	relPath, err := s.storage.Save(jobFilename(job, format), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("class export stored", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(payload)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Path resolves a stored export to its location on disk.
func (s *ExportService) Path(relPath string) (string, error) {
	return s.storage.Path(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// ReportCardSheet lays out one bulletin.
func ReportCardSheet(card bulletin.ReportCard) export.Sheet {
	rows := make([][]string, 0, len(card.Courses))
	for _, course := range card.Courses {
		remarks := "-"
		if len(course.Remarks) > 0 {
			remarks = strings.Join(course.Remarks, "; ")
		}
		rows = append(rows, []string{
			course.SubjectName,
			course.CourseName,
			course.Teacher,
			strconv.Itoa(course.Coefficient),
			bulletin.FormatAverage(course.Average),
			remarks,
		})
	}
	return export.Sheet{
		Name:       card.Student.FullName(),
		Letterhead: letterhead(card.Settings),
		Title:      card.Title,
		Subtitle:   studentLines(card.Student, card.AcademicYear),
		Columns:    []string{"Matière", "Cours", "Enseignant", "Coef.", "Moyenne/20", "Appréciations"},
		Rows:       rows,
		Summary: []string{
			fmt.Sprintf("%s: %s/20", card.Period.AverageLabel(), bulletin.FormatAverage(card.OverallAverage)),
			"Mention: " + string(card.Mention),
		},
		Signatures: signatures(card.Settings),
	}
}

// AnnualDocument renders both semesters; the second sheet carries the annual average.
func AnnualDocument(report bulletin.AnnualReport) export.Document {
	s1 := ReportCardSheet(report.Semester1)
	s2 := ReportCardSheet(report.Semester2)
	s2.Summary = append(s2.Summary,
		fmt.Sprintf("Moyenne annuelle: %s/20", bulletin.FormatAverage(report.AnnualAverage)),
		"Mention annuelle: "+string(report.Mention),
	)
	return export.Document{Sheets: []export.Sheet{s1, s2}}
}

// ClassBulletinsDocument holds one bulletin sheet per selected student.
func ClassBulletinsDocument(data *bulletin.Dataset, class, search string, period bulletin.Period) export.Document {
	cards := ClassReportCards(data, class, search, period)
	if len(cards) == 0 {
		return export.Document{Sheets: []export.Sheet{{
			Name:       "Classe " + class,
			Letterhead: letterhead(data.Settings),
			Title:      period.Title(),
			Columns:    []string{"Matière", "Cours", "Enseignant", "Coef.", "Moyenne/20", "Appréciations"},
			Summary:    []string{"Aucun étudiant"},
		}}}
	}
	sheets := make([]export.Sheet, 0, len(cards))
	for _, card := range cards {
		sheets = append(sheets, ReportCardSheet(card))
	}
	return export.Document{Sheets: sheets}
}

// ClassSummaryDocument lists every selected student with their averages.
func ClassSummaryDocument(data *bulletin.Dataset, class, search string) export.Document {
	rows := bulletin.ClassSummary(*data, class, search)
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{
			row.Student.LastName,
			row.Student.FirstName,
			classLabel(row.Student.Class),
			bulletin.FormatAverage(row.Semester1),
			bulletin.FormatAverage(row.Semester2),
			bulletin.FormatAverage(row.Final),
			bulletin.FormatAverage(row.Annual),
			string(row.Mention),
		})
	}
	return export.Document{Sheets: []export.Sheet{{
		Name:       "Classe " + class,
		Letterhead: letterhead(data.Settings),
		Title:      "RÉCAPITULATIF DES MOYENNES",
		Subtitle:   []string{"Année académique: " + data.Settings.AcademicYear()},
		Columns:    []string{"Nom", "Prénom", "Classe", "Moy. S1", "Moy. S2", "Examen final", "Moy. annuelle", "Mention"},
		Rows:       cells,
		Summary:    []string{fmt.Sprintf("Effectif: %d", len(cells))},
		Signatures: signatures(data.Settings),
	}}}
}

func letterhead(settings models.Settings) []string {
	lines := make([]string, 0, 3)
	for _, line := range []string{settings.InstituteName, settings.InstituteAddress} {
		if line != "" {
			lines = append(lines, line)
		}
	}
	contact := make([]string, 0, 3)
	if settings.InstitutePhone != "" {
		contact = append(contact, "Tél: "+settings.InstitutePhone)
	}
	for _, part := range []string{settings.InstituteEmail, settings.InstituteWebsite} {
		if part != "" {
			contact = append(contact, part)
		}
	}
	if len(contact) > 0 {
		lines = append(lines, strings.Join(contact, " - "))
	}
	return lines
}

func studentLines(student models.Student, academicYear string) []string {
	return []string{
		"Année académique: " + academicYear,
		"Étudiant: " + student.FullName(),
		"Classe: " + classLabel(student.Class),
	}
}

func classLabel(class string) string {
	if class == "1" {
		return "1ère année"
	}
	return class + "ème année"
}

func signatures(settings models.Settings) []export.Signature {
	return []export.Signature{
		{Title: settings.AcademicDirectorTitle, Name: settings.AcademicDirectorName},
		{Title: settings.GeneralDirectorTitle, Name: settings.GeneralDirectorName},
	}
}

func bulletinFilename(student models.Student, suffix string, format export.Format) string {
	return fmt.Sprintf("bulletin_%s_%s_%s.%s", sanitizeFilename(student.LastName), sanitizeFilename(student.FirstName), suffix, format)
}

func jobFilename(job *models.ReportJob, format export.Format) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	class := sanitizeFilename(job.Params.Class)
	if job.Params.Period != "" {
		class += "_" + sanitizeFilename(job.Params.Period)
	}
	return fmt.Sprintf("%s/%s_classe%s_%s.%s", job.ID, job.Type, class, timestamp, format)
}

// sanitizeFilename keeps ASCII letters, digits, '-' and '_'.
func sanitizeFilename(raw string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		folded = raw
	}
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	result := b.String()
	if result == "" {
		return "na"
	}
	if len(result) > 60 {
		return result[:60]
	}
	return result
}

func contentTypeFor(format string) string {
	return export.Format(format).ContentType()
}
