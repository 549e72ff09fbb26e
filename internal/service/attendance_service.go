package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/constructerp/attendance-api/internal/hours"
	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/internal/repository"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
)

type attendanceRepository interface {
	Create(ctx context.Context, rec *models.AttendanceRecord) error
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	ExistsForDate(ctx context.Context, foremanID, date string) (bool, error)
	FindPendingForSite(ctx context.Context, siteID string) ([]models.AttendanceRecord, error)
	FindPendingAdmin(ctx context.Context) ([]models.AttendanceRecord, error)
	FindApproved(ctx context.Context, limit int) ([]models.AttendanceRecord, error)
	FindRecent(ctx context.Context, siteID *string, limit int) ([]models.AttendanceRecord, error)
	FindByForeman(ctx context.Context, foremanID string) ([]models.AttendanceRecord, error)
	UpdateReview(ctx context.Context, id string, upd repository.ReviewUpdate) (int64, error)
	UpdateApproval(ctx context.Context, id string, upd repository.ApprovalUpdate) (int64, error)
}

type attendanceWorkerRepository interface {
	ListBySite(ctx context.Context, siteID string) ([]models.Worker, error)
}

type attendanceSiteRepository interface {
	FindByID(ctx context.Context, id string) (*models.Site, error)
}

type attendanceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AttendanceConfig tunes the attendance workflow.
type AttendanceConfig struct {
	DraftTTL      time.Duration
	ApprovedLimit int
	RecentLimit   int
}

// AttendanceService implements the three-tier approval workflow:
// foreman submission, incharge review, admin decision.
type AttendanceService struct {
	repo      attendanceRepository
	workers   attendanceWorkerRepository
	sites     attendanceSiteRepository
	cache     attendanceCache
	validator *validator.Validate
	logger    *zap.Logger
	config    AttendanceConfig
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(repo attendanceRepository, workers attendanceWorkerRepository, sites attendanceSiteRepository, cache attendanceCache, validate *validator.Validate, logger *zap.Logger, config AttendanceConfig) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.ApprovedLimit <= 0 {
		config.ApprovedLimit = 20
	}
	if config.RecentLimit <= 0 {
		config.RecentLimit = 10
	}
	if config.DraftTTL <= 0 {
		config.DraftTTL = 48 * time.Hour
	}
	return &AttendanceService{
		repo:      repo,
		workers:   workers,
		sites:     sites,
		cache:     cache,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// Submit records a foreman's daily attendance sheet. The unique index
// on (foreman_id, date) rejects a second submission atomically.
func (s *AttendanceService) Submit(ctx context.Context, actor *models.User, req models.SubmitAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if actor.Role != models.RoleForeman {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only foremen submit attendance")
	}
	if actor.SiteID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "foreman is not assigned to a site")
	}

	site, err := s.sites.FindByID(ctx, *actor.SiteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "assigned site no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site")
	}

	roster, err := s.workers.ListBySite(ctx, site.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site workers")
	}
	byID := make(map[string]models.Worker, len(roster))
	for _, w := range roster {
		byID[w.ID] = w
	}

	entries := make(models.EntryList, 0, len(req.Entries))
	present := 0
	for _, in := range req.Entries {
		worker, ok := byID[in.WorkerID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("worker %s is not registered at this site", in.WorkerID))
		}
		entry := models.AttendanceEntry{
			WorkerID:    worker.ID,
			WorkerName:  worker.Name,
			Designation: worker.Designation,
			IsPresent:   in.IsPresent,
			Remarks:     in.Remarks,
		}
		if in.IsPresent {
			entry.FormulaX = maxInt(in.FormulaX, 0)
			entry.FormulaY = hours.ClampY(in.FormulaY)
			entry.HoursWorked = hours.Decode(in.FormulaX, in.FormulaY)
			present++
		}
		entries = append(entries, entry)
	}
	if present == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one worker must be present")
	}

	rec := &models.AttendanceRecord{
		Date:           req.Date,
		SiteID:         site.ID,
		SiteName:       site.Name,
		ForemanID:      actor.ID,
		ForemanName:    actor.Name,
		Entries:        entries,
		Status:         models.StatusSubmitted,
		InTime:         req.InTime,
		OutTime:        req.OutTime,
		TotalWorkers:   len(entries),
		PresentWorkers: present,
		SubmittedAt:    time.Now().UTC(),
		CreatedBy:      actor.ID,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.invalidateDashboard(ctx)
	s.dropDraft(ctx, actor.ID, req.Date)
	s.logger.Info("attendance submitted",
		zap.String("record_id", rec.ID),
		zap.String("site_id", rec.SiteID),
		zap.String("date", rec.Date),
		zap.Int("present", present),
	)
	return rec, nil
}

// CheckSubmitted reports whether the foreman already submitted for a date.
func (s *AttendanceService) CheckSubmitted(ctx context.Context, actor *models.User, date string) (bool, error) {
	exists, err := s.repo.ExistsForDate(ctx, actor.ID, date)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check submission")
	}
	return exists, nil
}

// PendingForIncharge lists submitted records awaiting the caller's review.
func (s *AttendanceService) PendingForIncharge(ctx context.Context, actor *models.User) ([]models.AttendanceRecord, error) {
	if actor.Role != models.RoleSiteIncharge {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only site incharges review attendance")
	}
	if actor.SiteID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "incharge is not assigned to a site")
	}
	recs, err := s.repo.FindPendingForSite(ctx, *actor.SiteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending records")
	}
	return recs, nil
}

// Review applies the incharge decision to a submitted record. Edits are
// merged over the foreman's entries server-side and hours re-encoded
// through the formula codec. Approval requires the verification
// checklist to cover every worker still marked present after the merge,
// and forwards only the present entries to the admin stage.
func (s *AttendanceService) Review(ctx context.Context, actor *models.User, recordID string, req models.ReviewRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	rec, err := s.load(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleSiteIncharge {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only site incharges review attendance")
	}
	if actor.SiteID == nil || *actor.SiteID != rec.SiteID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "record belongs to a different site")
	}
	if rec.Status != models.StatusSubmitted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record is no longer awaiting review")
	}

	merged, err := mergeReviewEdits(rec.Entries, req.Edits)
	if err != nil {
		return nil, err
	}

	target := models.StatusRejected
	stored := merged
	if req.Action == models.ReviewActionApprove {
		target = models.StatusInchargeReviewed

		checked := make(map[string]struct{}, len(req.CheckedWorkerIDs))
		for _, id := range req.CheckedWorkerIDs {
			checked[id] = struct{}{}
		}
		presentOnly := make(models.EntryList, 0, len(merged))
		for _, e := range merged {
			if !e.IsPresent {
				continue
			}
			if _, ok := checked[e.WorkerID]; !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("present worker %s has not been verified", e.WorkerID))
			}
			presentOnly = append(presentOnly, e)
		}
		if len(presentOnly) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "cannot approve a sheet with no present workers")
		}
		stored = presentOnly
	}

	if !rec.Status.CanTransition(target) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "illegal status transition")
	}

	presentCount := 0
	for _, e := range stored {
		if e.IsPresent {
			presentCount++
		}
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateReview(ctx, rec.ID, repository.ReviewUpdate{
		Status:           target,
		Entries:          stored,
		TotalWorkers:     len(stored),
		PresentWorkers:   presentCount,
		InchargeComments: req.Comments,
		ReviewedAt:       now,
		ReviewedBy:       actor.ID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store review")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record was reviewed concurrently")
	}

	rec.Status = target
	rec.Entries = stored
	rec.TotalWorkers = len(stored)
	rec.PresentWorkers = presentCount
	rec.InchargeComments = req.Comments
	rec.ReviewedAt = &now
	rec.ReviewedBy = &actor.ID

	s.invalidateDashboard(ctx)
	s.logger.Info("attendance reviewed",
		zap.String("record_id", rec.ID),
		zap.String("action", string(req.Action)),
		zap.String("reviewer", actor.ID),
	)
	return rec, nil
}

// PendingForAdmin lists incharge-reviewed records across all sites.
func (s *AttendanceService) PendingForAdmin(ctx context.Context, actor *models.User) ([]models.AttendanceRecord, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin access required")
	}
	recs, err := s.repo.FindPendingAdmin(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending records")
	}
	return recs, nil
}

// AdminDecide gives the final verdict on an incharge-reviewed record.
// Only status, approval metadata and admin comments change; the entries
// forwarded by the incharge stay as they are.
func (s *AttendanceService) AdminDecide(ctx context.Context, actor *models.User, recordID string, req models.AdminDecisionRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin access required")
	}

	rec, err := s.load(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusInchargeReviewed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record is not awaiting admin decision")
	}

	target := models.StatusRejected
	if req.Action == models.ReviewActionApprove {
		target = models.StatusAdminApproved
	}
	if !rec.Status.CanTransition(target) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "illegal status transition")
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateApproval(ctx, rec.ID, repository.ApprovalUpdate{
		Status:        target,
		AdminComments: req.Comments,
		ApprovedAt:    now,
		ApprovedBy:    actor.ID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store decision")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record was decided concurrently")
	}

	rec.Status = target
	rec.AdminComments = req.Comments
	rec.ApprovedAt = &now
	rec.ApprovedBy = &actor.ID

	s.invalidateDashboard(ctx)
	s.logger.Info("attendance decided",
		zap.String("record_id", rec.ID),
		zap.String("action", string(req.Action)),
		zap.String("admin", actor.ID),
	)
	return rec, nil
}

// Approved returns the newest fully approved records.
func (s *AttendanceService) Approved(ctx context.Context, actor *models.User) ([]models.AttendanceRecord, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin access required")
	}
	recs, err := s.repo.FindApproved(ctx, s.config.ApprovedLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approved records")
	}
	return recs, nil
}

// RecentForRole returns the latest submissions visible to the caller.
// Admins see all sites, incharges their own site and foremen nothing;
// foremen track their sheets through the per-date check instead.
func (s *AttendanceService) RecentForRole(ctx context.Context, actor *models.User) ([]models.AttendanceRecord, error) {
	switch actor.Role {
	case models.RoleAdmin:
		recs, err := s.repo.FindRecent(ctx, nil, s.config.RecentLimit)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent records")
		}
		return recs, nil
	case models.RoleSiteIncharge:
		if actor.SiteID == nil {
			return []models.AttendanceRecord{}, nil
		}
		recs, err := s.repo.FindRecent(ctx, actor.SiteID, s.config.RecentLimit)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent records")
		}
		return recs, nil
	default:
		return []models.AttendanceRecord{}, nil
	}
}

// ByForeman returns a foreman's full submission history.
func (s *AttendanceService) ByForeman(ctx context.Context, actor *models.User, foremanID string) ([]models.AttendanceRecord, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin access required")
	}
	recs, err := s.repo.FindByForeman(ctx, foremanID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list foreman records")
	}
	return recs, nil
}

// SaveDraft parks an unsubmitted sheet in the cache.
func (s *AttendanceService) SaveDraft(ctx context.Context, actor *models.User, draft models.AttendanceDraft) error {
	if err := s.validator.Struct(draft); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}
	if actor.Role != models.RoleForeman {
		return appErrors.Clone(appErrors.ErrForbidden, "only foremen save drafts")
	}
	draft.SavedAt = time.Now().UTC()
	if err := s.cache.Set(ctx, draftKey(actor.ID, draft.Date), draft, s.config.DraftTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	return nil
}

// GetDraft retrieves a parked sheet, or NotFound when none exists.
func (s *AttendanceService) GetDraft(ctx context.Context, actor *models.User, date string) (*models.AttendanceDraft, error) {
	var draft models.AttendanceDraft
	err := s.cache.Get(ctx, draftKey(actor.ID, date), &draft)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no draft for this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return &draft, nil
}

func (s *AttendanceService) load(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}
	return rec, nil
}

func (s *AttendanceService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DeleteByPattern(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *AttendanceService) dropDraft(ctx context.Context, foremanID, date string) {
	if err := s.cache.Delete(ctx, draftKey(foremanID, date)); err != nil {
		s.logger.Warn("failed to drop submitted draft", zap.Error(err))
	}
}

func draftKey(foremanID, date string) string {
	return fmt.Sprintf("attendance:draft:%s:%s", foremanID, date)
}

// mergeReviewEdits overlays the incharge edits onto the foreman's
// entries and re-derives hours for every present entry.
func mergeReviewEdits(entries models.EntryList, edits []models.ReviewEntryEdit) (models.EntryList, error) {
	byID := make(map[string]int, len(entries))
	merged := make(models.EntryList, len(entries))
	copy(merged, entries)
	for i, e := range merged {
		byID[e.WorkerID] = i
	}

	for _, edit := range edits {
		idx, ok := byID[edit.WorkerID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("worker %s is not part of this record", edit.WorkerID))
		}
		entry := merged[idx]
		if edit.IsPresent != nil {
			entry.IsPresent = *edit.IsPresent
		}
		if edit.FormulaX != nil {
			entry.FormulaX = *edit.FormulaX
		}
		if edit.FormulaY != nil {
			entry.FormulaY = *edit.FormulaY
		}
		if edit.Remarks != nil {
			entry.Remarks = *edit.Remarks
		}
		merged[idx] = entry
	}

	for i, e := range merged {
		if e.IsPresent {
			e.FormulaX = maxInt(e.FormulaX, 0)
			e.FormulaY = hours.ClampY(e.FormulaY)
			e.HoursWorked = hours.Decode(e.FormulaX, e.FormulaY)
		} else {
			e.FormulaX = 0
			e.FormulaY = 0
			e.HoursWorked = 0
		}
		merged[i] = e
	}
	return merged, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
