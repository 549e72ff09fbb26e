package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/constructerp/attendance-api/internal/models"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
)

type workerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Worker, error)
	ListBySite(ctx context.Context, siteID string) ([]models.Worker, error)
	Create(ctx context.Context, worker *models.Worker) error
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id string) error
}

// WorkerService manages site labourers with site-scoped access control.
type WorkerService struct {
	repo      workerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkerService constructs a WorkerService instance.
func NewWorkerService(repo workerRepository, validate *validator.Validate, logger *zap.Logger) *WorkerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WorkerService{repo: repo, validator: validate, logger: logger}
}

// ListBySite returns a site's workers. Field staff only see their own site.
func (s *WorkerService) ListBySite(ctx context.Context, actor *models.User, siteID string) ([]models.Worker, error) {
	if err := requireSiteAccess(actor, siteID); err != nil {
		return nil, err
	}
	workers, err := s.repo.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workers")
	}
	return workers, nil
}

// Create registers a worker at the foreman's site.
func (s *WorkerService) Create(ctx context.Context, actor *models.User, req models.CreateWorkerRequest) (*models.Worker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload")
	}
	if err := requireWorkerWrite(actor, req.SiteID); err != nil {
		return nil, err
	}

	worker := &models.Worker{
		Name:        req.Name,
		FatherName:  req.FatherName,
		Designation: req.Designation,
		DailyWage:   req.DailyWage,
		SiteID:      req.SiteID,
		Phone:       req.Phone,
		Aadhar:      req.Aadhar,
	}
	if err := s.repo.Create(ctx, worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create worker")
	}

	s.logger.Info("worker created", zap.String("worker_id", worker.ID), zap.String("site_id", worker.SiteID))
	return worker, nil
}

// Update edits a worker's mutable fields.
func (s *WorkerService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateWorkerRequest) (*models.Worker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload")
	}

	worker, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireWorkerWrite(actor, worker.SiteID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.FatherName != nil {
		worker.FatherName = *req.FatherName
	}
	if req.Designation != nil {
		worker.Designation = *req.Designation
	}
	if req.DailyWage != nil {
		worker.DailyWage = *req.DailyWage
	}
	if req.Phone != nil {
		worker.Phone = req.Phone
	}
	if req.Aadhar != nil {
		worker.Aadhar = req.Aadhar
	}

	if err := s.repo.Update(ctx, worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update worker")
	}
	return worker, nil
}

// Delete removes a worker.
func (s *WorkerService) Delete(ctx context.Context, actor *models.User, id string) error {
	worker, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := requireWorkerWrite(actor, worker.SiteID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete worker")
	}
	s.logger.Info("worker deleted", zap.String("worker_id", id))
	return nil
}

func (s *WorkerService) load(ctx context.Context, id string) (*models.Worker, error) {
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "worker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}
	return worker, nil
}

// requireSiteAccess allows admins everywhere and field staff only at
// their assigned site.
func requireSiteAccess(actor *models.User, siteID string) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing authenticated user")
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.SiteID == nil || *actor.SiteID != siteID {
		return appErrors.Clone(appErrors.ErrForbidden, "no access to this site")
	}
	return nil
}

// requireWorkerWrite restricts worker mutations to the site's foreman or
// an admin.
func requireWorkerWrite(actor *models.User, siteID string) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing authenticated user")
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleForeman {
		return appErrors.Clone(appErrors.ErrForbidden, "only the site foreman can manage workers")
	}
	if actor.SiteID == nil || *actor.SiteID != siteID {
		return appErrors.Clone(appErrors.ErrForbidden, "worker belongs to a different site")
	}
	return nil
}
