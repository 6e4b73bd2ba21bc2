package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
)

type fakeDashboardSrv struct {
	resp *models.Dashboard
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Get(context.Context) (*models.Dashboard, bool, error) {
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerGet(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &models.Dashboard{StudentCount: 3, SchoolAverage: 8.72},
		hit:  true,
	})

	c, w := newGinContext(http.MethodGet, "/dashboard", nil)
	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(w)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, string(envelope.Data), `"student_count":3`)
}

func TestDashboardHandlerError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("db down")})

	c, w := newGinContext(http.MethodGet, "/dashboard", nil)
	handler.Get(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDashboardHandlerWithoutService(t *testing.T) {
	handler := NewDashboardHandler(nil)

	c, w := newGinContext(http.MethodGet, "/dashboard", nil)
	handler.Get(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
