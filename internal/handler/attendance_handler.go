package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/internal/service"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
	"github.com/constructerp/attendance-api/pkg/response"
)

// AttendanceHandler exposes the approval workflow endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Submit godoc
// @Summary Submit daily attendance
// @Description Submit the foreman's attendance sheet for one date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body models.SubmitAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/submit [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req models.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	rec, err := h.service.Submit(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, rec)
}

// SaveDraft godoc
// @Summary Save draft
// @Description Park an unsubmitted sheet so the foreman can resume it
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body models.AttendanceDraft true "Draft payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/save-draft [post]
func (h *AttendanceHandler) SaveDraft(c *gin.Context) {
	var draft models.AttendanceDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	if err := h.service.SaveDraft(c.Request.Context(), userFromContext(c), draft); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetDraft godoc
// @Summary Get draft
// @Description Retrieve the parked sheet for a date
// @Tags Attendance
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/draft/{date} [get]
func (h *AttendanceHandler) GetDraft(c *gin.Context) {
	draft, err := h.service.GetDraft(c.Request.Context(), userFromContext(c), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, draft)
}

// CheckSubmitted godoc
// @Summary Check submission
// @Description Report whether the caller already submitted for a date
// @Tags Attendance
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/check/{date} [get]
func (h *AttendanceHandler) CheckSubmitted(c *gin.Context) {
	submitted, err := h.service.CheckSubmitted(c.Request.Context(), userFromContext(c), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"submitted": submitted})
}

// PendingReview godoc
// @Summary Pending review queue
// @Description List submitted records awaiting the incharge's review
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/pending-review [get]
func (h *AttendanceHandler) PendingReview(c *gin.Context) {
	recs, err := h.service.PendingForIncharge(c.Request.Context(), userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recs)
}

// Review godoc
// @Summary Review attendance
// @Description Apply the incharge decision with optional per-worker edits
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body models.ReviewRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/review/{id} [post]
func (h *AttendanceHandler) Review(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	rec, err := h.service.Review(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, rec)
}

// PendingAdmin godoc
// @Summary Pending admin queue
// @Description List incharge-reviewed records across all sites
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/pending-admin [get]
func (h *AttendanceHandler) PendingAdmin(c *gin.Context) {
	recs, err := h.service.PendingForAdmin(c.Request.Context(), userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recs)
}

// AdminDecide godoc
// @Summary Admin decision
// @Description Give the final approve or reject verdict
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body models.AdminDecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/admin-approve/{id} [post]
func (h *AttendanceHandler) AdminDecide(c *gin.Context) {
	var req models.AdminDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	rec, err := h.service.AdminDecide(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, rec)
}

// Approved godoc
// @Summary Approved register
// @Description List the newest fully approved records
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/approved [get]
func (h *AttendanceHandler) Approved(c *gin.Context) {
	recs, err := h.service.Approved(c.Request.Context(), userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recs)
}

// Recent godoc
// @Summary Recent submissions
// @Description List the latest submissions visible to the caller's role
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/recent [get]
func (h *AttendanceHandler) Recent(c *gin.Context) {
	recs, err := h.service.RecentForRole(c.Request.Context(), userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recs)
}

// ByForeman godoc
// @Summary Foreman history
// @Description List a foreman's full submission history
// @Tags Attendance
// @Produce json
// @Param foremanId path string true "Foreman ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/foreman/{foremanId} [get]
func (h *AttendanceHandler) ByForeman(c *gin.Context) {
	recs, err := h.service.ByForeman(c.Request.Context(), userFromContext(c), c.Param("foremanId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recs)
}
