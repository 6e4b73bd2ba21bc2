package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/bulletin-api/internal/models"
	"github.com/noah-isme/bulletin-api/pkg/config"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Upsert(ctx context.Context, settings *models.Settings) error
}

// UpdateSettingsRequest replaces the institute header printed on bulletins.
type UpdateSettingsRequest struct {
	InstituteName         string    `json:"institute_name" validate:"required"`
	InstituteAddress      string    `json:"institute_address"`
	InstitutePhone        string    `json:"institute_phone"`
	InstituteEmail        string    `json:"institute_email" validate:"omitempty,email"`
	InstituteWebsite      string    `json:"institute_website"`
	AcademicYearStart     time.Time `json:"academic_year_start" validate:"required"`
	AcademicYearEnd       time.Time `json:"academic_year_end" validate:"required,gtfield=AcademicYearStart"`
	AcademicDirectorName  string    `json:"academic_director_name"`
	AcademicDirectorTitle string    `json:"academic_director_title"`
	GeneralDirectorName   string    `json:"general_director_name"`
	GeneralDirectorTitle  string    `json:"general_director_title"`
}

// SettingsService reads and updates the institute settings.
type SettingsService struct {
	repo      settingsRepository
	defaults  models.Settings
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// DefaultSettings converts configured institute values into settings.
func DefaultSettings(cfg config.InstituteConfig) models.Settings {
	return models.Settings{
		InstituteName:         cfg.Name,
		InstituteAddress:      cfg.Address,
		InstitutePhone:        cfg.Phone,
		InstituteEmail:        cfg.Email,
		InstituteWebsite:      cfg.Website,
		AcademicYearStart:     cfg.AcademicYearStart,
		AcademicYearEnd:       cfg.AcademicYearEnd,
		AcademicDirectorName:  cfg.AcademicDirectorName,
		AcademicDirectorTitle: cfg.AcademicDirectorTitle,
		GeneralDirectorName:   cfg.GeneralDirectorName,
		GeneralDirectorTitle:  cfg.GeneralDirectorTitle,
	}
}

// NewSettingsService constructs the service. defaults are served until settings are saved.
func NewSettingsService(repo settingsRepository, defaults models.Settings, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, defaults: defaults, cache: cache, validator: validate, logger: logger}
}

// Current returns the persisted settings, or the configured defaults when none exist.
func (s *SettingsService) Current(ctx context.Context) (models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.defaults, nil
		}
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return *settings, nil
}

// Update validates and stores new settings.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid settings payload")
	}
	settings := &models.Settings{
		InstituteName:         req.InstituteName,
		InstituteAddress:      req.InstituteAddress,
		InstitutePhone:        req.InstitutePhone,
		InstituteEmail:        req.InstituteEmail,
		InstituteWebsite:      req.InstituteWebsite,
		AcademicYearStart:     req.AcademicYearStart.UTC(),
		AcademicYearEnd:       req.AcademicYearEnd.UTC(),
		AcademicDirectorName:  req.AcademicDirectorName,
		AcademicDirectorTitle: req.AcademicDirectorTitle,
		GeneralDirectorName:   req.GeneralDirectorName,
		GeneralDirectorTitle:  req.GeneralDirectorTitle,
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.cache.InvalidateBulletins(ctx)
	s.logger.Info("settings updated", zap.String("institute", settings.InstituteName))
	return settings, nil
}
