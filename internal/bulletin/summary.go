package bulletin

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/bulletin-api/internal/models"
)

// Dataset holds the full reference collections of the school.
type Dataset struct {
	Students []models.Student
	Teachers []models.Teacher
	Courses  []models.Course
	Grades   []models.Grade
	Settings models.Settings
}

// InputFor narrows the dataset to a single student's bulletin input.
func (d Dataset) InputFor(student models.Student) Input {
	return Input{
		Student:  student,
		Teachers: d.Teachers,
		Courses:  d.Courses,
		Grades:   d.Grades,
		Settings: d.Settings,
	}
}

// MatchStudent reports whether student belongs to class ("" or "all" match
// every class) and whose first or last name contains search, ignoring case.
func MatchStudent(student models.Student, class, search string) bool {
	if class != "" && class != "all" && student.Class != class {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(student.LastName), needle) ||
		strings.Contains(strings.ToLower(student.FirstName), needle)
}

// SortStudents orders students by last then first name in French collation,
// then by id.
func SortStudents(students []models.Student) {
	col := collate.New(language.French)
	sort.SliceStable(students, func(i, j int) bool {
		if c := col.CompareString(students[i].LastName, students[j].LastName); c != 0 {
			return c < 0
		}
		if c := col.CompareString(students[i].FirstName, students[j].FirstName); c != 0 {
			return c < 0
		}
		return students[i].ID < students[j].ID
	})
}

// SelectStudents filters and sorts the dataset's students.
func (d Dataset) SelectStudents(class, search string) []models.Student {
	selected := make([]models.Student, 0)
	for _, s := range d.Students {
		if MatchStudent(s, class, search) {
			selected = append(selected, s)
		}
	}
	SortStudents(selected)
	return selected
}

// WeightedGradeMean is the mean of every grade of the student weighted by
// its course coefficient, across all periods and unrounded. It is 0 when the
// student has no grade on a known course or the coefficients sum to zero.
func WeightedGradeMean(studentID string, grades []models.Grade, courses []models.Course) float64 {
	coefficient := make(map[string]int, len(courses))
	for _, c := range courses {
		if _, dup := coefficient[c.ID]; !dup {
			coefficient[c.ID] = c.Coefficient
		}
	}

	var points float64
	var total int
	for _, g := range grades {
		if g.StudentID != studentID {
			continue
		}
		coef, ok := coefficient[g.CourseID]
		if !ok {
			continue
		}
		points += g.Value * float64(coef)
		total += coef
	}
	if total == 0 {
		return 0
	}
	return points / float64(total)
}

// Dashboard computes headline figures: counts, students per class, the
// school average (mean of every student's weighted grade mean, students
// without grades counting as 0) and the top students by that mean.
func Dashboard(d Dataset, top int) models.Dashboard {
	out := models.Dashboard{
		StudentCount:    len(d.Students),
		TeacherCount:    len(d.Teachers),
		CourseCount:     len(d.Courses),
		GradeCount:      len(d.Grades),
		StudentsByClass: make(map[string]int),
		TopStudents:     make([]models.DashboardStudent, 0),
	}
	if len(d.Students) == 0 {
		return out
	}

	ranked := make([]models.DashboardStudent, 0, len(d.Students))
	var sum float64
	for _, s := range d.Students {
		out.StudentsByClass[s.Class]++
		mean := WeightedGradeMean(s.ID, d.Grades, d.Courses)
		sum += mean
		ranked = append(ranked, models.DashboardStudent{
			StudentID: s.ID,
			FullName:  s.FullName(),
			Class:     s.Class,
			Average:   mean,
		})
	}
	out.SchoolAverage = Round2(sum / float64(len(d.Students)))

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Average > ranked[j].Average
	})
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	for i := range ranked {
		ranked[i].Average = Round2(ranked[i].Average)
	}
	out.TopStudents = ranked
	return out
}

// ClassRow is one line of a class summary.
type ClassRow struct {
	Student   models.Student `json:"student"`
	Semester1 float64        `json:"semester1"`
	Semester2 float64        `json:"semester2"`
	Final     float64        `json:"final"`
	Annual    float64        `json:"annual"`
	Mention   Mention        `json:"mention"`
}

// ClassSummary lists the selected students with their period overalls and
// annual average, in SelectStudents order.
func ClassSummary(d Dataset, class, search string) []ClassRow {
	students := d.SelectStudents(class, search)
	rows := make([]ClassRow, 0, len(students))
	for _, s := range students {
		annual := BuildAnnualReport(d.InputFor(s))
		final := BuildReportCard(d.InputFor(s), FinalExam)
		rows = append(rows, ClassRow{
			Student:   s,
			Semester1: annual.Semester1.OverallAverage,
			Semester2: annual.Semester2.OverallAverage,
			Final:     final.OverallAverage,
			Annual:    annual.AnnualAverage,
			Mention:   annual.Mention,
		})
	}
	return rows
}
