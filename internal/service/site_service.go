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

type siteRepository interface {
	FindByID(ctx context.Context, id string) (*models.Site, error)
	List(ctx context.Context) ([]models.Site, error)
	Create(ctx context.Context, site *models.Site) error
	Update(ctx context.Context, site *models.Site) error
}

type siteUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// SiteService manages construction sites and their incharge linkage.
type SiteService struct {
	repo      siteRepository
	users     siteUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSiteService constructs a SiteService instance.
func NewSiteService(repo siteRepository, users siteUserRepository, validate *validator.Validate, logger *zap.Logger) *SiteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SiteService{repo: repo, users: users, validator: validate, logger: logger}
}

// Create registers a site and, when an incharge is named, assigns them
// to it and caches their display name on the site row.
func (s *SiteService) Create(ctx context.Context, req models.CreateSiteRequest) (*models.Site, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid site payload")
	}

	site := &models.Site{
		Name:     req.Name,
		Location: req.Location,
		IsActive: true,
	}

	var incharge *models.User
	if req.InchargeID != nil {
		var err error
		incharge, err = s.loadIncharge(ctx, *req.InchargeID)
		if err != nil {
			return nil, err
		}
		site.InchargeID = &incharge.ID
		site.InchargeName = &incharge.Name
	}

	if err := s.repo.Create(ctx, site); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create site")
	}

	if incharge != nil {
		incharge.SiteID = &site.ID
		if err := s.users.Update(ctx, incharge); err != nil {
			s.logger.Warn("failed to assign site to incharge", zap.String("site_id", site.ID), zap.Error(err))
		}
	}

	s.logger.Info("site created", zap.String("site_id", site.ID), zap.String("name", site.Name))
	return site, nil
}

// List returns all sites.
func (s *SiteService) List(ctx context.Context) ([]models.Site, error) {
	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sites")
	}
	return sites, nil
}

// Update edits a site. Changing the incharge recomputes the cached
// incharge name and reassigns the new incharge's site.
func (s *SiteService) Update(ctx context.Context, id string, req models.UpdateSiteRequest) (*models.Site, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid site payload")
	}

	site, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "site not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site")
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Location != nil {
		site.Location = *req.Location
	}
	if req.IsActive != nil {
		site.IsActive = *req.IsActive
	}

	var incharge *models.User
	if req.InchargeID != nil {
		if *req.InchargeID == "" {
			site.InchargeID = nil
			site.InchargeName = nil
		} else {
			incharge, err = s.loadIncharge(ctx, *req.InchargeID)
			if err != nil {
				return nil, err
			}
			site.InchargeID = &incharge.ID
			site.InchargeName = &incharge.Name
		}
	}

	if err := s.repo.Update(ctx, site); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update site")
	}

	if incharge != nil {
		incharge.SiteID = &site.ID
		if err := s.users.Update(ctx, incharge); err != nil {
			s.logger.Warn("failed to assign site to incharge", zap.String("site_id", site.ID), zap.Error(err))
		}
	}

	return site, nil
}

func (s *SiteService) loadIncharge(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "incharge does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load incharge")
	}
	if user.Role != models.RoleSiteIncharge {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assigned user is not a site incharge")
	}
	return user, nil
}
