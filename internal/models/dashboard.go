package models

import "time"

// SystemMetrics is an aggregated snapshot of runtime counters exposed
// to admins alongside the Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// DayAttendance is one point in the weekly attendance series.
type DayAttendance struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Total   int    `json:"total"`
}

// DashboardStats aggregates the landing-page numbers.
type DashboardStats struct {
	TotalSites       int             `json:"total_sites"`
	TotalWorkers     int             `json:"total_workers"`
	PendingApprovals int             `json:"pending_approvals"`
	PresentToday     int             `json:"present_today"`
	WeeklyAttendance []DayAttendance `json:"weekly_attendance"`
}
