package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/internal/service"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
	"github.com/constructerp/attendance-api/pkg/response"
)

// SiteHandler exposes construction site endpoints.
type SiteHandler struct {
	service *service.SiteService
}

// NewSiteHandler creates a new handler.
func NewSiteHandler(svc *service.SiteService) *SiteHandler {
	return &SiteHandler{service: svc}
}

// Create godoc
// @Summary Create site
// @Description Register a construction site and optionally assign an incharge
// @Tags Sites
// @Accept json
// @Produce json
// @Param payload body models.CreateSiteRequest true "Site payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sites [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req models.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid site payload"))
		return
	}

	site, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, site)
}

// List godoc
// @Summary List sites
// @Description List all construction sites
// @Tags Sites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sites)
}

// Update godoc
// @Summary Update site
// @Description Edit a site; changing the incharge reassigns them
// @Tags Sites
// @Accept json
// @Produce json
// @Param id path string true "Site ID"
// @Param payload body models.UpdateSiteRequest true "Site payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id} [put]
func (h *SiteHandler) Update(c *gin.Context) {
	var req models.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid site payload"))
		return
	}

	site, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, site)
}
