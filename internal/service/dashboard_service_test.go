package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constructerp/attendance-api/internal/models"
)

type stubDashboardAttendance struct {
	pending      int
	presentByDay map[string]int
	totalByDay   map[string]int
	calls        int
}

func (s *stubDashboardAttendance) CountPending(ctx context.Context) (int, error) {
	return s.pending, nil
}

func (s *stubDashboardAttendance) PresentOnDate(ctx context.Context, date string) (int, int, error) {
	s.calls++
	return s.presentByDay[date], s.totalByDay[date], nil
}

type stubDashboardSites struct{ active int }

func (s *stubDashboardSites) CountActive(ctx context.Context) (int, error) { return s.active, nil }

type stubDashboardWorkers struct{ count int }

func (s *stubDashboardWorkers) Count(ctx context.Context) (int, error) { return s.count, nil }

func TestDashboardStatsComposesWeek(t *testing.T) {
	today := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	attendance := &stubDashboardAttendance{
		pending: 4,
		presentByDay: map[string]int{
			"2026-03-08": 12,
			"2026-03-07": 10,
		},
		totalByDay: map[string]int{
			"2026-03-08": 15,
			"2026-03-07": 14,
		},
	}
	cache := NewCacheService(newMockCache(), nil, time.Minute, nil, true)
	svc := NewDashboardService(DashboardServiceParams{
		Attendance: attendance,
		Sites:      &stubDashboardSites{active: 3},
		Workers:    &stubDashboardWorkers{count: 42},
		Cache:      cache,
	})
	svc.now = func() time.Time { return today }

	stats, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, stats.TotalSites)
	assert.Equal(t, 42, stats.TotalWorkers)
	assert.Equal(t, 4, stats.PendingApprovals)
	assert.Equal(t, 12, stats.PresentToday)

	require.Len(t, stats.WeeklyAttendance, 7)
	assert.Equal(t, "2026-03-02", stats.WeeklyAttendance[0].Date)
	assert.Equal(t, "2026-03-08", stats.WeeklyAttendance[6].Date)
	assert.Equal(t, 10, stats.WeeklyAttendance[5].Present)
	assert.Equal(t, 15, stats.WeeklyAttendance[6].Total)
}

func TestDashboardStatsServedFromCache(t *testing.T) {
	attendance := &stubDashboardAttendance{presentByDay: map[string]int{}, totalByDay: map[string]int{}}
	cache := NewCacheService(newMockCache(), nil, time.Minute, nil, true)
	svc := NewDashboardService(DashboardServiceParams{
		Attendance: attendance,
		Sites:      &stubDashboardSites{},
		Workers:    &stubDashboardWorkers{},
		Cache:      cache,
	})

	_, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	firstCalls := attendance.calls

	_, hit, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, firstCalls, attendance.calls)
}

func TestDashboardStatsWithoutCache(t *testing.T) {
	attendance := &stubDashboardAttendance{presentByDay: map[string]int{}, totalByDay: map[string]int{}}
	svc := NewDashboardService(DashboardServiceParams{
		Attendance: attendance,
		Sites:      &stubDashboardSites{active: 1},
		Workers:    &stubDashboardWorkers{count: 5},
	})

	stats, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, stats.TotalSites)
	assert.IsType(t, []models.DayAttendance{}, stats.WeeklyAttendance)
}
