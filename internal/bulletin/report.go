package bulletin

import (
	"github.com/noah-isme/bulletin-api/internal/models"
)

// Input is the snapshot a bulletin is computed from. Collections are read only.
type Input struct {
	Student  models.Student
	Teachers []models.Teacher
	Courses  []models.Course
	Grades   []models.Grade
	Settings models.Settings
}

// ReportCard is the presentation-ready bulletin of one student for one period.
type ReportCard struct {
	Student        models.Student  `json:"student"`
	Period         Period          `json:"period"`
	Title          string          `json:"title"`
	AcademicYear   string          `json:"academic_year"`
	Courses        []CourseAverage `json:"courses"`
	OverallAverage float64         `json:"overall_average"`
	Mention        Mention         `json:"mention"`
	Settings       models.Settings `json:"settings"`
}

// AnnualReport pairs both semester bulletins with the annual average.
type AnnualReport struct {
	Student       models.Student  `json:"student"`
	AcademicYear  string          `json:"academic_year"`
	Semester1     ReportCard      `json:"semester1"`
	Semester2     ReportCard      `json:"semester2"`
	AnnualAverage float64         `json:"annual_average"`
	Mention       Mention         `json:"mention"`
	Settings      models.Settings `json:"settings"`
}

// BuildReportCard assembles the bulletin of in.Student for period.
func BuildReportCard(in Input, period Period) ReportCard {
	courses := ComputeCourseAverages(in.Student.ID, period, in.Grades, in.Courses, in.Teachers)
	overall := ComputeOverallAverage(courses)

	return ReportCard{
		Student:        in.Student,
		Period:         period,
		Title:          period.Title(),
		AcademicYear:   in.Settings.AcademicYear(),
		Courses:        courses,
		OverallAverage: overall,
		Mention:        Classify(overall),
		Settings:       in.Settings,
	}
}

// BuildAnnualReport builds both semester bulletins and their annual average.
func BuildAnnualReport(in Input) AnnualReport {
	s1 := BuildReportCard(in, Semester1)
	s2 := BuildReportCard(in, Semester2)
	annual := AnnualAverage(s1.OverallAverage, s2.OverallAverage)

	return AnnualReport{
		Student:       in.Student,
		AcademicYear:  in.Settings.AcademicYear(),
		Semester1:     s1,
		Semester2:     s2,
		AnnualAverage: annual,
		Mention:       Classify(annual),
		Settings:      in.Settings,
	}
}
