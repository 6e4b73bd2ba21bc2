package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/bulletin-api/internal/bulletin"
	"github.com/noah-isme/bulletin-api/internal/models"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
)

type studentLister interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type teacherLister interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type courseLister interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type gradeLister interface {
	ListAll(ctx context.Context) ([]models.Grade, error)
}

type settingsProvider interface {
	Current(ctx context.Context) (models.Settings, error)
}

// BulletinSources are the collections a bulletin snapshot is loaded from.
type BulletinSources struct {
	Students studentLister
	Teachers teacherLister
	Courses  courseLister
	Grades   gradeLister
	Settings settingsProvider
}

// BulletinService computes report cards from a fresh snapshot per request.
type BulletinService struct {
	src     BulletinSources
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewBulletinService constructs the bulletin service. cache and metrics may be nil.
func NewBulletinService(src BulletinSources, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *BulletinService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulletinService{src: src, cache: cache, metrics: metrics, logger: logger}
}

// Dataset loads every student, teacher, course and grade plus the current settings.
func (s *BulletinService) Dataset(ctx context.Context) (*bulletin.Dataset, error) {
	students, err := s.src.Students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	teachers, err := s.src.Teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	courses, err := s.src.Courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	grades, err := s.src.Grades.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	settings, err := s.src.Settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &bulletin.Dataset{
		Students: students,
		Teachers: teachers,
		Courses:  courses,
		Grades:   grades,
		Settings: settings,
	}, nil
}

// ReportCard returns the bulletin of one student for the requested period.
func (s *BulletinService) ReportCard(ctx context.Context, studentID, rawPeriod string) (*bulletin.ReportCard, error) {
	period, err := ParsePeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	key := reportCardCacheKey(studentID, string(period))
	var card bulletin.ReportCard
	if hit, _ := s.cache.Get(ctx, key, &card); hit {
		return &card, nil
	}

	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	student, err := findStudent(data, studentID)
	if err != nil {
		return nil, err
	}
	card = bulletin.BuildReportCard(data.InputFor(student), period)
	s.metrics.RecordReportCard(string(period))
	_ = s.cache.Set(ctx, key, card, 0)
	return &card, nil
}

// AnnualReport returns both semester bulletins of a student and the annual average.
func (s *BulletinService) AnnualReport(ctx context.Context, studentID string) (*bulletin.AnnualReport, error) {
	key := annualReportCacheKey(studentID)
	var report bulletin.AnnualReport
	if hit, _ := s.cache.Get(ctx, key, &report); hit {
		return &report, nil
	}

	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	student, err := findStudent(data, studentID)
	if err != nil {
		return nil, err
	}
	report = bulletin.BuildAnnualReport(data.InputFor(student))
	s.metrics.RecordReportCard(string(bulletin.Semester1))
	s.metrics.RecordReportCard(string(bulletin.Semester2))
	_ = s.cache.Set(ctx, key, report, 0)
	return &report, nil
}

// ClassReportCards returns the bulletins of every student of a class level
// matching search, sorted by last name then first name.
func (s *BulletinService) ClassReportCards(ctx context.Context, class, search, rawPeriod string) ([]bulletin.ReportCard, error) {
	period, err := ParsePeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	search = strings.TrimSpace(search)
	key := classCacheKey(class, string(period), search)
	var cards []bulletin.ReportCard
	if hit, _ := s.cache.Get(ctx, key, &cards); hit {
		return cards, nil
	}

	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	cards = ClassReportCards(data, class, search, period)
	for range cards {
		s.metrics.RecordReportCard(string(period))
	}
	_ = s.cache.Set(ctx, key, cards, 0)
	return cards, nil
}

// ClassSummary returns one line per selected student with every period average.
func (s *BulletinService) ClassSummary(ctx context.Context, class, search string) ([]bulletin.ClassRow, error) {
	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return bulletin.ClassSummary(*data, class, strings.TrimSpace(search)), nil
}

// ClassReportCards builds the report cards of the selected students from a snapshot.
func ClassReportCards(data *bulletin.Dataset, class, search string, period bulletin.Period) []bulletin.ReportCard {
	students := data.SelectStudents(class, search)
	cards := make([]bulletin.ReportCard, 0, len(students))
	for _, student := range students {
		cards = append(cards, bulletin.BuildReportCard(data.InputFor(student), period))
	}
	return cards
}

// ParsePeriod maps a query value to a period. An empty value selects the first semester.
func ParsePeriod(raw string) (bulletin.Period, error) {
	if strings.TrimSpace(raw) == "" {
		return bulletin.Semester1, nil
	}
	period, err := bulletin.ParsePeriod(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidPeriod.Code, appErrors.ErrInvalidPeriod.Status, appErrors.ErrInvalidPeriod.Message)
	}
	return period, nil
}

func findStudent(data *bulletin.Dataset, id string) (models.Student, error) {
	for _, student := range data.Students {
		if student.ID == id {
			return student, nil
		}
	}
	return models.Student{}, appErrors.NotFound("student")
}
