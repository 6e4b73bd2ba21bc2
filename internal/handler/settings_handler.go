package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bulletin-api/internal/models"
	"github.com/noah-isme/bulletin-api/internal/service"
	"github.com/noah-isme/bulletin-api/pkg/response"
)

type settingsService interface {
	Current(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, req service.UpdateSettingsRequest) (*models.Settings, error)
}

// SettingsHandler reads and replaces the institute header.
type SettingsHandler struct {
	settings settingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings settingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get godoc
// @Summary Institute settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// Update godoc
// @Summary Replace institute settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}
