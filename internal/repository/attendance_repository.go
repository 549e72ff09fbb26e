package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/constructerp/attendance-api/internal/models"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
)

const attendanceColumns = `id, date, site_id, site_name, foreman_id, foreman_name, entries, status, in_time, out_time, total_workers, present_workers, incharge_comments, admin_comments, submitted_at, reviewed_at, approved_at, created_by, reviewed_by, approved_by`

// AttendanceRepository provides database access for daily attendance
// records. Rows are never deleted; workflow transitions are single-row
// updates guarded by the current status.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a new attendance record. The unique index on
// (foreman_id, date) makes the duplicate check atomic; a violation
// surfaces as a conflict without any write.
func (r *AttendanceRepository) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}

	const query = `INSERT INTO attendance_records (id, date, site_id, site_name, foreman_id, foreman_name, entries, status, in_time, out_time, total_workers, present_workers, incharge_comments, admin_comments, submitted_at, reviewed_at, approved_at, created_by, reviewed_by, approved_by)
VALUES (:id, :date, :site_id, :site_name, :foreman_id, :foreman_name, :entries, :status, :in_time, :out_time, :total_workers, :present_workers, :incharge_comments, :admin_comments, :submitted_at, :reviewed_at, :approved_at, :created_by, :reviewed_by, :approved_by)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return appErrors.Clone(appErrors.ErrConflict, "attendance already submitted for this date")
		}
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

// FindByID returns a record by identifier.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1 LIMIT 1`
	var rec models.AttendanceRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance record: %w", err)
	}
	return &rec, nil
}

// ExistsForDate reports whether the foreman already submitted for a date.
func (r *AttendanceRepository) ExistsForDate(ctx context.Context, foremanID, date string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM attendance_records WHERE foreman_id = $1 AND date = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, foremanID, date); err != nil {
		return false, fmt.Errorf("check attendance exists: %w", err)
	}
	return exists, nil
}

// FindPendingForSite returns submitted records awaiting incharge review.
func (r *AttendanceRepository) FindPendingForSite(ctx context.Context, siteID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE status = $1 AND site_id = $2 ORDER BY submitted_at ASC`
	var recs []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &recs, query, models.StatusSubmitted, siteID); err != nil {
		return nil, fmt.Errorf("find pending for site: %w", err)
	}
	return recs, nil
}

// FindPendingAdmin returns incharge-reviewed records across all sites.
func (r *AttendanceRepository) FindPendingAdmin(ctx context.Context) ([]models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE status = $1 ORDER BY reviewed_at ASC`
	var recs []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &recs, query, models.StatusInchargeReviewed); err != nil {
		return nil, fmt.Errorf("find pending admin: %w", err)
	}
	return recs, nil
}

// FindApproved returns the newest approved records first.
func (r *AttendanceRepository) FindApproved(ctx context.Context, limit int) ([]models.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE status = $1 ORDER BY approved_at DESC LIMIT $2`
	var recs []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &recs, query, models.StatusAdminApproved, limit); err != nil {
		return nil, fmt.Errorf("find approved: %w", err)
	}
	return recs, nil
}

// FindRecent returns the latest submissions, optionally scoped to a site.
func (r *AttendanceRepository) FindRecent(ctx context.Context, siteID *string, limit int) ([]models.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var recs []models.AttendanceRecord
	if siteID != nil {
		const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE site_id = $1 ORDER BY submitted_at DESC LIMIT $2`
		if err := r.db.SelectContext(ctx, &recs, query, *siteID, limit); err != nil {
			return nil, fmt.Errorf("find recent for site: %w", err)
		}
		return recs, nil
	}
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records ORDER BY submitted_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, fmt.Errorf("find recent: %w", err)
	}
	return recs, nil
}

// FindByForeman returns all submissions by one foreman, newest first.
func (r *AttendanceRepository) FindByForeman(ctx context.Context, foremanID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE foreman_id = $1 ORDER BY submitted_at DESC`
	var recs []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &recs, query, foremanID); err != nil {
		return nil, fmt.Errorf("find by foreman: %w", err)
	}
	return recs, nil
}

// ReviewUpdate carries the fields written by the incharge decision.
type ReviewUpdate struct {
	Status           models.AttendanceStatus
	Entries          models.EntryList
	TotalWorkers     int
	PresentWorkers   int
	InchargeComments *string
	ReviewedAt       time.Time
	ReviewedBy       string
}

// UpdateReview applies the incharge decision to a submitted record. The
// WHERE clause pins the current status, so a stale or concurrent review
// affects zero rows.
func (r *AttendanceRepository) UpdateReview(ctx context.Context, id string, upd ReviewUpdate) (int64, error) {
	const query = `UPDATE attendance_records
SET status = $2, entries = $3, total_workers = $4, present_workers = $5, incharge_comments = $6, reviewed_at = $7, reviewed_by = $8
WHERE id = $1 AND status = $9`
	res, err := r.db.ExecContext(ctx, query, id, upd.Status, upd.Entries, upd.TotalWorkers, upd.PresentWorkers, upd.InchargeComments, upd.ReviewedAt, upd.ReviewedBy, models.StatusSubmitted)
	if err != nil {
		return 0, fmt.Errorf("update review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update review rows: %w", err)
	}
	return affected, nil
}

// ApprovalUpdate carries the fields written by the admin decision.
type ApprovalUpdate struct {
	Status        models.AttendanceStatus
	AdminComments *string
	ApprovedAt    time.Time
	ApprovedBy    string
}

// UpdateApproval applies the admin decision to an incharge-reviewed
// record, guarded the same way as UpdateReview.
func (r *AttendanceRepository) UpdateApproval(ctx context.Context, id string, upd ApprovalUpdate) (int64, error) {
	const query = `UPDATE attendance_records
SET status = $2, admin_comments = $3, approved_at = $4, approved_by = $5
WHERE id = $1 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, id, upd.Status, upd.AdminComments, upd.ApprovedAt, upd.ApprovedBy, models.StatusInchargeReviewed)
	if err != nil {
		return 0, fmt.Errorf("update approval: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update approval rows: %w", err)
	}
	return affected, nil
}

// CountPending returns how many records still await a decision.
func (r *AttendanceRepository) CountPending(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance_records WHERE status IN ($1, $2)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, models.StatusSubmitted, models.StatusInchargeReviewed); err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return count, nil
}

// PresentOnDate sums present and total workers over all records for a date.
func (r *AttendanceRepository) PresentOnDate(ctx context.Context, date string) (present, total int, err error) {
	const query = `SELECT COALESCE(SUM(present_workers), 0) AS present, COALESCE(SUM(total_workers), 0) AS total FROM attendance_records WHERE date = $1`
	var row struct {
		Present int `db:"present"`
		Total   int `db:"total"`
	}
	if err := r.db.GetContext(ctx, &row, query, date); err != nil {
		return 0, 0, fmt.Errorf("present on date: %w", err)
	}
	return row.Present, row.Total, nil
}
