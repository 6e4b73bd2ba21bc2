package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
)

func TestSettingsRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM settings WHERE id = 1")).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).WillReturnResult(sqlmock.NewResult(0, 1))

	settings := &models.Settings{
		InstituteName:     "IBACY",
		AcademicYearStart: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEnd:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(context.Background(), settings))
	assert.False(t, settings.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
