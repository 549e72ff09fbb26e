package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/internal/service"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
	"github.com/constructerp/attendance-api/pkg/response"
)

// WorkerHandler exposes worker roster endpoints.
type WorkerHandler struct {
	service *service.WorkerService
}

// NewWorkerHandler creates a new handler.
func NewWorkerHandler(svc *service.WorkerService) *WorkerHandler {
	return &WorkerHandler{service: svc}
}

// ListBySite godoc
// @Summary List site workers
// @Description List the workers registered at a site
// @Tags Workers
// @Produce json
// @Param siteId path string true "Site ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /workers/site/{siteId} [get]
func (h *WorkerHandler) ListBySite(c *gin.Context) {
	workers, err := h.service.ListBySite(c.Request.Context(), userFromContext(c), c.Param("siteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, workers)
}

// Create godoc
// @Summary Register worker
// @Description Register a worker at the caller's site
// @Tags Workers
// @Accept json
// @Produce json
// @Param payload body models.CreateWorkerRequest true "Worker payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	var req models.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid worker payload"))
		return
	}

	worker, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, worker)
}

// Update godoc
// @Summary Update worker
// @Description Edit a worker's mutable fields
// @Tags Workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param payload body models.UpdateWorkerRequest true "Worker payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id} [put]
func (h *WorkerHandler) Update(c *gin.Context) {
	var req models.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid worker payload"))
		return
	}

	worker, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, worker)
}

// Delete godoc
// @Summary Delete worker
// @Description Remove a worker from the roster
// @Tags Workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id} [delete]
func (h *WorkerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
