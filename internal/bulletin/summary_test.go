package bulletin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
)

func dataset() Dataset {
	return Dataset{
		Students: []models.Student{
			{ID: "s1", FirstName: "Ama", LastName: "Kouamé", Class: "1"},
			{ID: "s2", FirstName: "Éric", LastName: "Bamba", Class: "1"},
			{ID: "s3", FirstName: "Paul", LastName: "Assi", Class: "2"},
		},
		Courses: []models.Course{
			{ID: "c1", SubjectName: "Théologie", Coefficient: 2},
			{ID: "c2", SubjectName: "Grec", Coefficient: 1},
		},
		Grades: []models.Grade{
			grade("g1", "s1", "c1", 14, 1, ""),
			grade("g2", "s1", "c2", 11, 2, ""),
			grade("g3", "s2", "c1", 18, 1, ""),
			grade("g4", "s2", "ghost", 0, 1, ""),
		},
	}
}

func TestSelectStudentsFiltersAndSorts(t *testing.T) {
	d := dataset()

	got := d.SelectStudents("1", "")
	require.Len(t, got, 2)
	assert.Equal(t, "s2", got[0].ID)
	assert.Equal(t, "s1", got[1].ID)

	got = d.SelectStudents("all", "KOU")
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	assert.Len(t, d.SelectStudents("", ""), 3)
}

func TestWeightedGradeMean(t *testing.T) {
	d := dataset()

	assert.Equal(t, 13.0, WeightedGradeMean("s1", d.Grades, d.Courses))
	assert.Equal(t, 18.0, WeightedGradeMean("s2", d.Grades, d.Courses))
	assert.Equal(t, 0.0, WeightedGradeMean("s3", d.Grades, d.Courses))
}

func TestDashboard(t *testing.T) {
	dash := Dashboard(dataset(), 2)

	assert.Equal(t, 3, dash.StudentCount)
	assert.Equal(t, 4, dash.GradeCount)
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, dash.StudentsByClass)
	assert.Equal(t, 10.33, dash.SchoolAverage)
	require.Len(t, dash.TopStudents, 2)
	assert.Equal(t, "s2", dash.TopStudents[0].StudentID)
	assert.Equal(t, "Ama Kouamé", dash.TopStudents[1].FullName)
}

func TestDashboardEmpty(t *testing.T) {
	dash := Dashboard(Dataset{}, 5)

	assert.Equal(t, 0.0, dash.SchoolAverage)
	assert.Empty(t, dash.TopStudents)
}

func TestClassSummary(t *testing.T) {
	rows := ClassSummary(dataset(), "1", "")

	require.Len(t, rows, 2)
	assert.Equal(t, "s2", rows[0].Student.ID)
	assert.Equal(t, 18.0, rows[0].Semester1)
	assert.Equal(t, 9.0, rows[0].Annual)
	assert.Equal(t, 14.0, rows[1].Semester1)
	assert.Equal(t, 11.0, rows[1].Semester2)
	assert.Equal(t, 12.5, rows[1].Annual)
	assert.Equal(t, MentionGood, rows[1].Mention)
}
