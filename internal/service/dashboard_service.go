package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/constructerp/attendance-api/internal/models"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
)

type dashboardAttendanceRepository interface {
	CountPending(ctx context.Context) (int, error)
	PresentOnDate(ctx context.Context, date string) (present, total int, err error)
}

type dashboardSiteRepository interface {
	CountActive(ctx context.Context) (int, error)
}

type dashboardWorkerRepository interface {
	Count(ctx context.Context) (int, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL   time.Duration
	WeekLength int
}

// DashboardService composes the landing-page aggregates from live data.
type DashboardService struct {
	attendance dashboardAttendanceRepository
	sites      dashboardSiteRepository
	workers    dashboardWorkerRepository
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
	cfg        DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Attendance dashboardAttendanceRepository
	Sites      dashboardSiteRepository
	Workers    dashboardWorkerRepository
	Cache      *CacheService
	Logger     *zap.Logger
	Config     DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.WeekLength <= 0 {
		cfg.WeekLength = 7
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		attendance: params.Attendance,
		sites:      params.Sites,
		workers:    params.Workers,
		cache:      params.Cache,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

const dashboardStatsKey = "dashboard:stats"

// Stats returns the dashboard aggregates and whether the cache was hit.
// The payload is identical for every role, so one cache entry serves all
// users until a workflow mutation invalidates it.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	if s.cache != nil {
		var cached models.DashboardStats
		hit, err := s.cache.Get(ctx, dashboardStatsKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	stats, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardStatsKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*models.DashboardStats, error) {
	totalSites, err := s.sites.CountActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sites")
	}
	totalWorkers, err := s.workers.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count workers")
	}
	pending, err := s.attendance.CountPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending approvals")
	}

	today := s.now().UTC()
	week := make([]models.DayAttendance, 0, s.cfg.WeekLength)
	presentToday := 0
	for offset := s.cfg.WeekLength - 1; offset >= 0; offset-- {
		date := today.AddDate(0, 0, -offset).Format("2006-01-02")
		present, total, err := s.attendance.PresentOnDate(ctx, date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance series")
		}
		week = append(week, models.DayAttendance{Date: date, Present: present, Total: total})
		if offset == 0 {
			presentToday = present
		}
	}

	return &models.DashboardStats{
		TotalSites:       totalSites,
		TotalWorkers:     totalWorkers,
		PendingApprovals: pending,
		PresentToday:     presentToday,
		WeeklyAttendance: week,
	}, nil
}
