package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/internal/service"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
	"github.com/constructerp/attendance-api/pkg/export"
	"github.com/constructerp/attendance-api/pkg/response"
)

type exportJobService interface {
	CreateJob(ctx context.Context, req models.CreateExportRequest, actorID string) (*service.ExportJobStatus, error)
	GetStatus(ctx context.Context, id string) (*service.ExportJobStatus, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler exposes the register export endpoints.
type ExportHandler struct {
	service exportJobService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc exportJobService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// CreateExport godoc
// @Summary Queue register export
// @Description Queue an approved-register export in csv or pdf format
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body models.CreateExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/export [post]
func (h *ExportHandler) CreateExport(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	status, err := h.service.CreateJob(c.Request.Context(), req, user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, status)
}

// Status godoc
// @Summary Export job status
// @Description Poll an export job's progress and result URL
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/export/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Download godoc
// @Summary Download export
// @Description Stream a finished export file using its signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.service.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	size := int64(-1)
	if info, err := download.File.Stat(); err == nil {
		size = info.Size()
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, size, mimeForFormat(download.Format), download.File, nil)
}

func mimeForFormat(f export.Format) string {
	switch f {
	case export.FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}
