package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bulletin-api/internal/bulletin"
	"github.com/noah-isme/bulletin-api/internal/middleware"
	"github.com/noah-isme/bulletin-api/internal/service"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
	"github.com/noah-isme/bulletin-api/pkg/export"
	"github.com/noah-isme/bulletin-api/pkg/response"
)

// annualPeriod selects the annual bulletin on the export endpoint.
const annualPeriod = "annual"

type bulletinService interface {
	ReportCard(ctx context.Context, studentID, period string) (*bulletin.ReportCard, error)
	AnnualReport(ctx context.Context, studentID string) (*bulletin.AnnualReport, error)
	ClassReportCards(ctx context.Context, class, search, period string) ([]bulletin.ReportCard, error)
	ClassSummary(ctx context.Context, class, search string) ([]bulletin.ClassRow, error)
}

type bulletinRenderer interface {
	RenderReportCard(card *bulletin.ReportCard, format export.Format) (*service.RenderedFile, error)
	RenderAnnualReport(report *bulletin.AnnualReport, format export.Format) (*service.RenderedFile, error)
}

// BulletinHandler serves report cards as JSON and as downloadable documents.
type BulletinHandler struct {
	bulletins bulletinService
	renderer  bulletinRenderer
}

// NewBulletinHandler constructs BulletinHandler.
func NewBulletinHandler(bulletins bulletinService, renderer bulletinRenderer) *BulletinHandler {
	return &BulletinHandler{bulletins: bulletins, renderer: renderer}
}

// StudentReportCard godoc
// @Summary Student bulletin for one period
// @Tags Bulletins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param period query string false "semester1 (default), semester2 or final"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bulletins/students/{id} [get]
func (h *BulletinHandler) StudentReportCard(c *gin.Context) {
	card, err := h.bulletins.ReportCard(c.Request.Context(), c.Param("id"), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, card, nil, middleware.ResponseMeta(c))
}

// StudentAnnualReport godoc
// @Summary Student annual bulletin
// @Description Both semester bulletins and the annual average.
// @Tags Bulletins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /bulletins/students/{id}/annual [get]
func (h *BulletinHandler) StudentAnnualReport(c *gin.Context) {
	report, err := h.bulletins.AnnualReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, middleware.ResponseMeta(c))
}

// ExportStudent godoc
// @Summary Download a student bulletin
// @Tags Bulletins
// @Produce application/pdf,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param period query string false "semester1 (default), semester2, final or annual"
// @Param format query string false "pdf (default), csv or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /bulletins/students/{id}/export [get]
func (h *BulletinHandler) ExportStudent(c *gin.Context) {
	format, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var file *service.RenderedFile
	if strings.EqualFold(strings.TrimSpace(c.Query("period")), annualPeriod) {
		report, err := h.bulletins.AnnualReport(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		file, err = h.renderer.RenderAnnualReport(report, format)
		if err != nil {
			response.Error(c, err)
			return
		}
	} else {
		card, err := h.bulletins.ReportCard(c.Request.Context(), c.Param("id"), c.Query("period"))
		if err != nil {
			response.Error(c, err)
			return
		}
		file, err = h.renderer.RenderReportCard(card, format)
		if err != nil {
			response.Error(c, err)
			return
		}
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// ClassReportCards godoc
// @Summary Bulletins of a whole class
// @Tags Bulletins
// @Produce json
// @Security BearerAuth
// @Param class path string true "1, 2, 3 or all"
// @Param period query string false "semester1 (default), semester2 or final"
// @Param search query string false "Filter by first or last name"
// @Success 200 {object} response.Envelope
// @Router /bulletins/classes/{class} [get]
func (h *BulletinHandler) ClassReportCards(c *gin.Context) {
	class, ok := classParam(c)
	if !ok {
		return
	}
	cards, err := h.bulletins.ClassReportCards(c.Request.Context(), class, c.Query("search"), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cards, nil, map[string]interface{}{"count": len(cards)})
}

// ClassSummary godoc
// @Summary Class averages overview
// @Description One row per student with semester, final and annual averages.
// @Tags Bulletins
// @Produce json
// @Security BearerAuth
// @Param class path string true "1, 2, 3 or all"
// @Param search query string false "Filter by first or last name"
// @Success 200 {object} response.Envelope
// @Router /bulletins/classes/{class}/summary [get]
func (h *BulletinHandler) ClassSummary(c *gin.Context) {
	class, ok := classParam(c)
	if !ok {
		return
	}
	rows, err := h.bulletins.ClassSummary(c.Request.Context(), class, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"count": len(rows)})
}

func classParam(c *gin.Context) (string, bool) {
	class := strings.TrimSpace(c.Param("class"))
	switch class {
	case "1", "2", "3", "all":
		return class, true
	}
	response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class must be one of 1, 2, 3, all"))
	return "", false
}
