package bulletin

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/bulletin-api/internal/models"
)

// UnassignedTeacher is displayed for courses without a resolvable teacher.
const UnassignedTeacher = "Non assigné"

// CourseAverage is one bulletin row: a student's mean for a course over a period.
type CourseAverage struct {
	CourseID    string   `json:"course_id"`
	CourseName  string   `json:"course_name"`
	SubjectName string   `json:"subject_name"`
	Coefficient int      `json:"coefficient"`
	Teacher     string   `json:"teacher"`
	Average     float64  `json:"average"`
	GradeCount  int      `json:"grade_count"`
	Remarks     []string `json:"remarks"`
}

type courseGroup struct {
	course *models.Course
	sum    float64
	count  int
	remark []string
}

// ComputeCourseAverages groups the student's grades for period by course and
// returns one row per course, sorted by subject name in French collation
// order with course id as tie-break.
//
// grades must be the full collection: filtering by student, semester and
// final-exam track happens here. Grades referencing an unknown course are
// ignored.
func ComputeCourseAverages(studentID string, period Period, grades []models.Grade, courses []models.Course, teachers []models.Teacher) []CourseAverage {
	result := make([]CourseAverage, 0)
	if !period.Valid() {
		return result
	}

	courseByID := make(map[string]*models.Course, len(courses))
	for i := range courses {
		if _, dup := courseByID[courses[i].ID]; !dup {
			courseByID[courses[i].ID] = &courses[i]
		}
	}
	teacherByID := make(map[string]*models.Teacher, len(teachers))
	for i := range teachers {
		if _, dup := teacherByID[teachers[i].ID]; !dup {
			teacherByID[teachers[i].ID] = &teachers[i]
		}
	}

	semester := period.Semester()
	groups := make(map[string]*courseGroup)
	order := make([]string, 0)
	for _, g := range grades {
		if g.StudentID != studentID {
			continue
		}
		if period != FinalExam && g.Semester != semester {
			continue
		}
		course, ok := courseByID[g.CourseID]
		if !ok {
			continue
		}
		if course.IsFinalExam != (period == FinalExam) {
			continue
		}

		group, ok := groups[course.ID]
		if !ok {
			group = &courseGroup{course: course, remark: make([]string, 0)}
			groups[course.ID] = group
			order = append(order, course.ID)
		}
		group.sum += g.Value
		group.count++
		if g.Remark != nil && *g.Remark != "" {
			group.remark = append(group.remark, *g.Remark)
		}
	}

	for _, id := range order {
		group := groups[id]
		result = append(result, CourseAverage{
			CourseID:    group.course.ID,
			CourseName:  group.course.Name,
			SubjectName: group.course.SubjectName,
			Coefficient: group.course.Coefficient,
			Teacher:     teacherName(group.course.TeacherID, teacherByID),
			Average:     Round2(group.sum / float64(group.count)),
			GradeCount:  group.count,
			Remarks:     group.remark,
		})
	}

	// collate.Collator is not safe for concurrent use.
	col := collate.New(language.French)
	sort.SliceStable(result, func(i, j int) bool {
		if c := col.CompareString(result[i].SubjectName, result[j].SubjectName); c != 0 {
			return c < 0
		}
		return result[i].CourseID < result[j].CourseID
	})

	return result
}

func teacherName(id *string, teachers map[string]*models.Teacher) string {
	if id == nil {
		return UnassignedTeacher
	}
	t, ok := teachers[*id]
	if !ok {
		return UnassignedTeacher
	}
	return t.DisplayName()
}
