package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
)

type mockCourseRepo struct {
	courses map[string]models.Course
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := m.courses[id]; ok {
		return &course, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = map[string]models.Course{}
	}
	course.ID = "c-new"
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func intPtr(v int) *int { return &v }

func TestCourseServiceCreate(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: map[string]models.Teacher{"t1": {ID: "t1"}}}
	svc := NewCourseService(&mockCourseRepo{}, teachers, nil, nil, nil)

	course, err := svc.Create(context.Background(), CourseRequest{
		Name:        "Pentateuque",
		SubjectName: "Ancien Testament",
		Coefficient: 3,
		Hours:       intPtr(30),
		TeacherID:   strPtr("t1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "c-new", course.ID)
	assert.Equal(t, 3, course.Coefficient)
	require.NotNil(t, course.TeacherID)
	assert.Equal(t, "t1", *course.TeacherID)
}

func TestCourseServiceAllowsZeroCoefficientAndNoTeacher(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockTeacherRepo{}, nil, nil, nil)

	course, err := svc.Create(context.Background(), CourseRequest{Name: "Chapelle", SubjectName: "Vie spirituelle", Coefficient: 0, TeacherID: strPtr(" ")})
	require.NoError(t, err)
	assert.Nil(t, course.TeacherID)
}

func TestCourseServiceValidation(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockTeacherRepo{}, nil, nil, nil)

	cases := map[string]CourseRequest{
		"negative coefficient": {Name: "A", SubjectName: "B", Coefficient: -1},
		"negative hours":       {Name: "A", SubjectName: "B", Hours: intPtr(-2)},
		"missing subject":      {Name: "A"},
		"unknown teacher":      {Name: "A", SubjectName: "B", TeacherID: strPtr("ghost")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}
