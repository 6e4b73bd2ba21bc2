package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
	"github.com/noah-isme/bulletin-api/internal/service"
)

type fakeSettings struct {
	updated service.UpdateSettingsRequest
}

func (f *fakeSettings) Current(ctx context.Context) (models.Settings, error) {
	return models.Settings{InstituteName: "Institut Biblique"}, nil
}

func (f *fakeSettings) Update(ctx context.Context, req service.UpdateSettingsRequest) (*models.Settings, error) {
	f.updated = req
	return &models.Settings{InstituteName: req.InstituteName}, nil
}

func TestSettingsHandler(t *testing.T) {
	svc := &fakeSettings{}
	handler := NewSettingsHandler(svc)

	c, w := newGinContext(http.MethodGet, "/settings", nil)
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(w).Data), "Institut Biblique")

	body := []byte(`{"institute_name":"IBACY","academic_year_start":"2025-09-01T00:00:00Z","academic_year_end":"2026-07-31T00:00:00Z"}`)
	c, w = newGinContext(http.MethodPut, "/settings", body)
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2026, svc.updated.AcademicYearEnd.Year())
	assert.Equal(t, time.September, svc.updated.AcademicYearStart.Month())
}
