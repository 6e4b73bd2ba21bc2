package bulletin

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
)

func strPtr(s string) *string { return &s }

func grade(id, student, course string, value float64, semester int, remark string) models.Grade {
	g := models.Grade{ID: id, StudentID: student, CourseID: course, Value: value, Semester: semester}
	if remark != "" {
		g.Remark = strPtr(remark)
	}
	return g
}

func fixtures() ([]models.Teacher, []models.Course) {
	teachers := []models.Teacher{{ID: "t1", FirstName: "Jean", LastName: "Yao"}}
	courses := []models.Course{
		{ID: "c1", Name: "Théologie I", SubjectName: "Théologie", Coefficient: 2, TeacherID: strPtr("t1")},
		{ID: "c2", Name: "Grec I", SubjectName: "Grec", Coefficient: 1},
		{ID: "cf", Name: "Synthèse", SubjectName: "Examen", Coefficient: 4, IsFinalExam: true, TeacherID: strPtr("t-missing")},
	}
	return teachers, courses
}

func TestEndToEndSemesterScenario(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{
		grade("g1", "s", "c1", 14, 1, ""),
		grade("g2", "s", "c1", 16, 1, ""),
		grade("g3", "s", "c2", 10, 1, ""),
	}

	card := BuildReportCard(Input{
		Student:  models.Student{ID: "s", FirstName: "Ama", LastName: "Kouamé", Class: "1"},
		Teachers: teachers,
		Courses:  courses,
		Grades:   grades,
	}, Semester1)

	require.Len(t, card.Courses, 2)
	byID := map[string]CourseAverage{}
	for _, c := range card.Courses {
		byID[c.CourseID] = c
	}
	assert.Equal(t, 15.0, byID["c1"].Average)
	assert.Equal(t, 10.0, byID["c2"].Average)
	assert.Equal(t, 13.33, card.OverallAverage)
	assert.Equal(t, MentionGood, card.Mention)
	assert.Equal(t, "BULLETIN DE NOTES - 1er SEMESTRE", card.Title)
}

func TestComputeCourseAveragesIsIdempotent(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{
		grade("g1", "s", "c1", 12.5, 2, "Bien"),
		grade("g2", "s", "c2", 9, 2, ""),
		grade("g3", "s", "c1", 13.25, 2, ""),
	}

	first := ComputeCourseAverages("s", Semester2, grades, courses, teachers)
	second := ComputeCourseAverages("s", Semester2, grades, courses, teachers)

	assert.Equal(t, first, second)
}

func TestComputeOverallAverageWeighted(t *testing.T) {
	avgs := []CourseAverage{
		{Average: 12, Coefficient: 2},
		{Average: 16, Coefficient: 3},
	}
	assert.Equal(t, 14.4, ComputeOverallAverage(avgs))
}

func TestComputeOverallAverageZeroCoefficient(t *testing.T) {
	got := ComputeOverallAverage([]CourseAverage{{Average: 15, Coefficient: 0}})

	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, 0.0, ComputeOverallAverage(nil))
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		avg  float64
		want Mention
	}{
		{16.0, MentionExcellent},
		{15.99, MentionVeryGood},
		{14.0, MentionVeryGood},
		{12.0, MentionGood},
		{10.0, MentionFairlyGood},
		{9.99, MentionInsufficient},
		{25, MentionExcellent},
		{-3, MentionInsufficient},
		{math.NaN(), MentionInsufficient},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.avg), "average %v", tc.avg)
	}
}

func TestMissingTeacherIsUnassigned(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{grade("g1", "s", "c2", 11, 1, "")}

	rows := ComputeCourseAverages("s", Semester1, grades, courses, teachers)

	require.Len(t, rows, 1)
	assert.Equal(t, UnassignedTeacher, rows[0].Teacher)
}

func TestRemarksDropEmptyAndKeepOrder(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{
		grade("g1", "s", "c1", 12, 1, "Bon travail"),
		grade("g2", "s", "c1", 13, 1, ""),
		grade("g3", "s", "c1", 14, 1, "Peut mieux faire"),
	}

	rows := ComputeCourseAverages("s", Semester1, grades, courses, teachers)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Bon travail", "Peut mieux faire"}, rows[0].Remarks)
	assert.Equal(t, "Jean Yao", rows[0].Teacher)
	assert.Equal(t, 3, rows[0].GradeCount)
}

func TestRemarksDuplicatesAreKept(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{
		grade("g1", "s", "c2", 12, 1, "Bien"),
		grade("g2", "s", "c2", 13, 1, "Bien"),
	}

	rows := ComputeCourseAverages("s", Semester1, grades, courses, teachers)

	assert.Equal(t, []string{"Bien", "Bien"}, rows[0].Remarks)
}

func TestNoGradesYieldsEmptyCard(t *testing.T) {
	teachers, courses := fixtures()

	card := BuildReportCard(Input{Student: models.Student{ID: "nobody"}, Teachers: teachers, Courses: courses}, Semester1)

	assert.NotNil(t, card.Courses)
	assert.Empty(t, card.Courses)
	assert.Equal(t, 0.0, card.OverallAverage)
	assert.Equal(t, MentionInsufficient, card.Mention)
}

func TestUnknownCourseIsDropped(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{
		grade("g1", "s", "ghost", 20, 1, ""),
		grade("g2", "s", "c2", 8, 1, ""),
	}

	rows := ComputeCourseAverages("s", Semester1, grades, courses, teachers)

	require.Len(t, rows, 1)
	assert.Equal(t, "c2", rows[0].CourseID)
}

func TestPeriodsSeparateSemestersAndFinalTrack(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{
		grade("g1", "s", "c1", 12, 1, ""),
		grade("g2", "s", "c1", 18, 2, ""),
		grade("g3", "s", "cf", 15, 1, ""),
		grade("g4", "s", "cf", 16, 2, ""),
		grade("g5", "other", "c1", 2, 1, ""),
	}

	s1 := ComputeCourseAverages("s", Semester1, grades, courses, teachers)
	require.Len(t, s1, 1)
	assert.Equal(t, 12.0, s1[0].Average)

	s2 := ComputeCourseAverages("s", Semester2, grades, courses, teachers)
	require.Len(t, s2, 1)
	assert.Equal(t, 18.0, s2[0].Average)

	final := ComputeCourseAverages("s", FinalExam, grades, courses, teachers)
	require.Len(t, final, 1)
	assert.Equal(t, "cf", final[0].CourseID)
	assert.Equal(t, 15.5, final[0].Average)
	assert.Equal(t, UnassignedTeacher, final[0].Teacher)

	assert.Empty(t, ComputeCourseAverages("s", Period("bogus"), grades, courses, teachers))
}

func TestRowsSortedByFrenchCollation(t *testing.T) {
	courses := []models.Course{
		{ID: "z", SubjectName: "Zoologie", Coefficient: 1},
		{ID: "e2", SubjectName: "Éthique", Coefficient: 1},
		{ID: "a", SubjectName: "Apologétique", Coefficient: 1},
		{ID: "f", SubjectName: "Français", Coefficient: 1},
		{ID: "e1", SubjectName: "Éthique", Coefficient: 1},
	}
	grades := []models.Grade{
		grade("1", "s", "z", 10, 1, ""),
		grade("2", "s", "e2", 10, 1, ""),
		grade("3", "s", "a", 10, 1, ""),
		grade("4", "s", "f", 10, 1, ""),
		grade("5", "s", "e1", 10, 1, ""),
	}

	rows := ComputeCourseAverages("s", Semester1, grades, courses, nil)

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CourseID)
	}
	assert.Equal(t, []string{"a", "e1", "e2", "f", "z"}, ids)
}

func TestBuildAnnualReportAveragesRoundedSemesters(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", SubjectName: "A", Coefficient: 1},
		{ID: "c2", SubjectName: "B", Coefficient: 2},
	}
	grades := []models.Grade{
		grade("1", "s", "c1", 10, 1, ""),
		grade("2", "s", "c2", 11, 1, ""),
		grade("3", "s", "c1", 12.25, 2, ""),
	}
	in := Input{
		Student: models.Student{ID: "s"},
		Courses: courses,
		Grades:  grades,
		Settings: models.Settings{
			AcademicYearStart: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
			AcademicYearEnd:   time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	report := BuildAnnualReport(in)

	assert.Equal(t, 10.67, report.Semester1.OverallAverage)
	assert.Equal(t, 12.25, report.Semester2.OverallAverage)
	assert.Equal(t, 11.46, report.AnnualAverage)
	assert.Equal(t, MentionFairlyGood, report.Mention)
	assert.Equal(t, "2024-2025", report.AcademicYear)
}

func TestBuildAnnualReportLeavesOutFinalExamCourses(t *testing.T) {
	teachers, courses := fixtures()
	grades := []models.Grade{
		grade("g1", "s", "c1", 12, 1, ""),
		grade("g2", "s", "cf", 20, 1, ""),
		grade("g3", "s", "c1", 14, 2, ""),
		grade("g4", "s", "cf", 18, 2, ""),
	}

	report := BuildAnnualReport(Input{Student: models.Student{ID: "s"}, Teachers: teachers, Courses: courses, Grades: grades})

	require.Len(t, report.Semester1.Courses, 1)
	require.Len(t, report.Semester2.Courses, 1)
	assert.Equal(t, "c1", report.Semester1.Courses[0].CourseID)
	assert.Equal(t, 12.0, report.Semester1.OverallAverage)
	assert.Equal(t, 14.0, report.Semester2.OverallAverage)
	assert.Equal(t, 13.0, report.AnnualAverage)
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.005:              1.01,
		-2.345:             -2.35,
		13.333333333333334: 13.33,
		14.4:               14.4,
		0.995:              1,
		2.675:              2.68,
		7:                  7,
	}
	for in, want := range cases {
		assert.Equal(t, want, Round2(in), "Round2(%v)", in)
	}
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
	assert.Equal(t, "15.00", FormatAverage(15))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Semester2 ")
	require.NoError(t, err)
	assert.Equal(t, Semester2, p)

	p, err = ParsePeriod("final")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Semester())
	assert.Equal(t, "Moyenne finale", p.AverageLabel())

	_, err = ParsePeriod("semester3")
	assert.Error(t, err)
}
