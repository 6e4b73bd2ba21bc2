package service

import (
	"context"
	"time"

	"github.com/noah-isme/bulletin-api/internal/bulletin"
	"github.com/noah-isme/bulletin-api/internal/models"
)

type studentsStub struct {
	items []models.Student
	loads *int
}

func (s studentsStub) ListAll(ctx context.Context) ([]models.Student, error) {
	if s.loads != nil {
		*s.loads++
	}
	return s.items, nil
}

type teachersStub []models.Teacher

func (s teachersStub) ListAll(ctx context.Context) ([]models.Teacher, error) { return s, nil }

type coursesStub []models.Course

func (s coursesStub) ListAll(ctx context.Context) ([]models.Course, error) { return s, nil }

type gradesStub []models.Grade

func (s gradesStub) ListAll(ctx context.Context) ([]models.Grade, error) { return s, nil }

type settingsStub models.Settings

func (s settingsStub) Current(ctx context.Context) (models.Settings, error) {
	return models.Settings(s), nil
}

type datasetStub struct {
	data *bulletin.Dataset
	err  error
}

func (d datasetStub) Dataset(ctx context.Context) (*bulletin.Dataset, error) {
	return d.data, d.err
}

type countingLoader struct {
	data  datasetStub
	calls int
}

func (c *countingLoader) Dataset(ctx context.Context) (*bulletin.Dataset, error) {
	c.calls++
	return c.data.Dataset(ctx)
}

func strPtr(v string) *string { return &v }

func fixtureSettings() models.Settings {
	return models.Settings{
		InstituteName:         "Institut Biblique",
		InstituteAddress:      "BP 63 Yamoussoukro",
		InstitutePhone:        "0102030405",
		AcademicYearStart:     time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEnd:       time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC),
		AcademicDirectorName:  "Dr. Yao",
		AcademicDirectorTitle: "Directeur Académique",
		GeneralDirectorName:   "Dr. Pokou",
		GeneralDirectorTitle:  "Directeur Général",
	}
}

// fixtureDataset: Ama has C1 {14,16} and C2 {10} in semester 1, giving 13.33.
func fixtureDataset() *bulletin.Dataset {
	base := time.Date(2024, time.October, 1, 8, 0, 0, 0, time.UTC)
	return &bulletin.Dataset{
		Students: []models.Student{
			{ID: "s1", LastName: "Kouamé", FirstName: "Ama", Class: "1"},
			{ID: "s2", LastName: "Bamba", FirstName: "Koffi", Class: "1"},
			{ID: "s3", LastName: "Diallo", FirstName: "Awa", Class: "2"},
		},
		Teachers: []models.Teacher{{ID: "t1", LastName: "Yao", FirstName: "Jean"}},
		Courses: []models.Course{
			{ID: "c1", Name: "Pentateuque", SubjectName: "Ancien Testament", Coefficient: 2, TeacherID: strPtr("t1")},
			{ID: "c2", Name: "Grec I", SubjectName: "Langues", Coefficient: 1},
			{ID: "c3", Name: "Synthèse", SubjectName: "Examen", Coefficient: 1, IsFinalExam: true},
		},
		Grades: []models.Grade{
			{ID: "g1", StudentID: "s1", CourseID: "c1", Value: 14, Semester: 1, Remark: strPtr("Bon travail"), CreatedAt: base},
			{ID: "g2", StudentID: "s1", CourseID: "c1", Value: 16, Semester: 1, CreatedAt: base.Add(time.Minute)},
			{ID: "g3", StudentID: "s1", CourseID: "c2", Value: 10, Semester: 1, CreatedAt: base.Add(2 * time.Minute)},
			{ID: "g4", StudentID: "s2", CourseID: "c1", Value: 12, Semester: 1, CreatedAt: base.Add(3 * time.Minute)},
			{ID: "g5", StudentID: "s1", CourseID: "c3", Value: 15, Semester: 2, CreatedAt: base.Add(4 * time.Minute)},
		},
		Settings: fixtureSettings(),
	}
}

func fixtureSources(loads *int) BulletinSources {
	data := fixtureDataset()
	return BulletinSources{
		Students: studentsStub{items: data.Students, loads: loads},
		Teachers: teachersStub(data.Teachers),
		Courses:  coursesStub(data.Courses),
		Grades:   gradesStub(data.Grades),
		Settings: settingsStub(data.Settings),
	}
}
