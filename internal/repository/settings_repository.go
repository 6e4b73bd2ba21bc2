package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/bulletin-api/internal/models"
)

const settingsColumns = `institute_name, institute_address, institute_phone, institute_email, institute_website,
academic_year_start, academic_year_end, academic_director_name, academic_director_title,
general_director_name, general_director_title, updated_at`

// SettingsRepository persists the single institute settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings or sql.ErrNoRows when none were saved.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.GetContext(ctx, &settings, "SELECT "+settingsColumns+" FROM settings WHERE id = 1"); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert inserts or replaces the settings row.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	const query = `INSERT INTO settings (id, institute_name, institute_address, institute_phone, institute_email, institute_website,
academic_year_start, academic_year_end, academic_director_name, academic_director_title, general_director_name, general_director_title, updated_at)
VALUES (1, :institute_name, :institute_address, :institute_phone, :institute_email, :institute_website,
:academic_year_start, :academic_year_end, :academic_director_name, :academic_director_title, :general_director_name, :general_director_title, :updated_at)
ON CONFLICT (id)
DO UPDATE SET institute_name = EXCLUDED.institute_name, institute_address = EXCLUDED.institute_address,
              institute_phone = EXCLUDED.institute_phone, institute_email = EXCLUDED.institute_email,
              institute_website = EXCLUDED.institute_website, academic_year_start = EXCLUDED.academic_year_start,
              academic_year_end = EXCLUDED.academic_year_end, academic_director_name = EXCLUDED.academic_director_name,
              academic_director_title = EXCLUDED.academic_director_title, general_director_name = EXCLUDED.general_director_name,
              general_director_title = EXCLUDED.general_director_title, updated_at = EXCLUDED.updated_at`
	settings.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
