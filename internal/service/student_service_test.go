package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/bulletin-api/internal/models"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
)

type mockStudentRepo struct {
	students   map[string]models.Student
	deleted    []string
	lastFilter models.StudentFilter
	listTotal  int
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, m.listTotal, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = "generated"
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.students, id)
	return nil
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	cacheRepo := newMemoryCacheRepo()
	cacheRepo.items["bulletin:student:generated:semester1"] = []byte("{}")
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewStudentService(repo, cache, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), StudentRequest{LastName: " Kouamé ", FirstName: "Ama", Class: "2"})
	require.NoError(t, err)
	assert.Equal(t, "generated", student.ID)
	assert.Equal(t, "Kouamé", student.LastName)
	assert.Len(t, repo.students, 1)
	assert.Empty(t, cacheRepo.items)
}

func TestStudentServiceCreateRejectsUnknownClass(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), StudentRequest{LastName: "Kouamé", FirstName: "Ama", Class: "4"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"id1": {ID: "id1", LastName: "Old", FirstName: "Name", Class: "1"}}}
	svc := NewStudentService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "id1", StudentRequest{LastName: "Kouamé", FirstName: "Ama", Class: "3"})
	require.NoError(t, err)
	assert.Equal(t, "3", updated.Class)
	assert.Equal(t, "Kouamé", repo.students["id1"].LastName)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"id1": {ID: "id1"}}}
	svc := NewStudentService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "id1"))
	assert.Equal(t, []string{"id1"}, repo.deleted)
	assert.Error(t, svc.Delete(context.Background(), "id1"))
}

func TestStudentServiceListPagination(t *testing.T) {
	repo := &mockStudentRepo{listTotal: 42}
	svc := NewStudentService(repo, nil, nil, nil)

	_, pagination, err := svc.List(context.Background(), models.StudentFilter{Page: 0, PageSize: 500, Class: "1"})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 42, pagination.TotalCount)
	assert.Equal(t, "1", repo.lastFilter.Class)
}
