package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
	"github.com/noah-isme/bulletin-api/pkg/config"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
)

type mockSettingsRepo struct {
	stored *models.Settings
	getErr error
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.stored == nil {
		return nil, sql.ErrNoRows
	}
	stored := *m.stored
	return &stored, nil
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings *models.Settings) error {
	stored := *settings
	m.stored = &stored
	return nil
}

func TestSettingsServiceFallsBackToDefaults(t *testing.T) {
	defaults := DefaultSettings(config.InstituteConfig{
		Name:              "IBACY",
		AcademicYearStart: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEnd:   time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
	})
	svc := NewSettingsService(&mockSettingsRepo{}, defaults, nil, nil, nil)

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IBACY", current.InstituteName)
	assert.Equal(t, "2024-2025", current.AcademicYear())
}

func TestSettingsServiceUpdate(t *testing.T) {
	repo := &mockSettingsRepo{}
	cacheRepo := newMemoryCacheRepo()
	cacheRepo.items["bulletin:dashboard"] = []byte("{}")
	svc := NewSettingsService(repo, models.Settings{}, NewCacheService(cacheRepo, nil, time.Minute, nil, true), nil, nil)

	_, err := svc.Update(context.Background(), UpdateSettingsRequest{
		InstituteName:     "Institut Biblique",
		InstituteEmail:    "contact@ibacy.ci",
		AcademicYearStart: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEnd:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, cacheRepo.items)

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", current.AcademicYear())
}

func TestSettingsServiceUpdateValidation(t *testing.T) {
	svc := NewSettingsService(&mockSettingsRepo{}, models.Settings{}, nil, nil, nil)

	_, err := svc.Update(context.Background(), UpdateSettingsRequest{
		InstituteName:     "Institut Biblique",
		AcademicYearStart: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceRepositoryError(t *testing.T) {
	svc := NewSettingsService(&mockSettingsRepo{getErr: errors.New("boom")}, models.Settings{}, nil, nil, nil)

	_, err := svc.Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
