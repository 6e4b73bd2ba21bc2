package dto

import (
	"time"

	"github.com/noah-isme/bulletin-api/internal/models"
)

// ReportRequest captures the POST /reports/bulletins payload.
type ReportRequest struct {
	Type   models.ReportType `json:"type" validate:"omitempty,oneof=class_bulletins class_summary"`
	Class  string            `json:"class" validate:"required,oneof=1 2 3 all"`
	Period string            `json:"period"`
	Format string            `json:"format"`
	Search string            `json:"search"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID         string                 `json:"id"`
	Type       models.ReportType      `json:"type"`
	Params     models.ReportJobParams `json:"params"`
	Status     models.ReportStatus    `json:"status"`
	Progress   int                    `json:"progress"`
	ResultURL  *string                `json:"result_url,omitempty"`
	Error      *string                `json:"error,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	FinishedAt *time.Time             `json:"finished_at,omitempty"`
}
