package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constructerp/attendance-api/internal/models"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
)

func attendanceRows(now time.Time, status models.AttendanceStatus) *sqlmock.Rows {
	entries := []byte(`[{"worker_id":"w1","worker_name":"Ram Kumar","designation":"mason","is_present":true,"formula_x":1,"formula_y":1,"hours_worked":9}]`)
	return sqlmock.NewRows([]string{
		"id", "date", "site_id", "site_name", "foreman_id", "foreman_name", "entries", "status",
		"in_time", "out_time", "total_workers", "present_workers", "incharge_comments", "admin_comments",
		"submitted_at", "reviewed_at", "approved_at", "created_by", "reviewed_by", "approved_by",
	}).AddRow("a1", "2026-08-30", "s1", "Riverside Towers", "u1", "Ramesh Kumar", entries, string(status),
		nil, nil, 1, 1, nil, nil, now, nil, nil, "u1", nil, nil)
}

func TestCreateAttendanceDuplicateDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_records").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.Create(context.Background(), &models.AttendanceRecord{
		Date:      "2026-08-30",
		SiteID:    "s1",
		ForemanID: "u1",
		Status:    models.StatusSubmitted,
		Entries:   models.EntryList{},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsForDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM attendance_records WHERE foreman_id = $1 AND date = $2)")).
		WithArgs("u1", "2026-08-30").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForDate(context.Background(), "u1", "2026-08-30")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPendingForSite(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT .+ FROM attendance_records WHERE status = .+ AND site_id = .+ ORDER BY submitted_at ASC").
		WithArgs(string(models.StatusSubmitted), "s1").
		WillReturnRows(attendanceRows(time.Now(), models.StatusSubmitted))

	recs, err := repo.FindPendingForSite(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StatusSubmitted, recs[0].Status)
	require.Len(t, recs[0].Entries, 1)
	assert.Equal(t, 9, recs[0].Entries[0].HoursWorked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindApprovedDefaultLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT .+ FROM attendance_records WHERE status = .+ ORDER BY approved_at DESC LIMIT .+").
		WithArgs(string(models.StatusAdminApproved), 20).
		WillReturnRows(attendanceRows(time.Now(), models.StatusAdminApproved))

	recs, err := repo.FindApproved(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReviewStaleStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("UPDATE attendance_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateReview(context.Background(), "a1", ReviewUpdate{
		Status:     models.StatusInchargeReviewed,
		Entries:    models.EntryList{},
		ReviewedAt: time.Now(),
		ReviewedBy: "u2",
	})
	require.NoError(t, err)
	assert.Zero(t, affected, "record no longer in submitted state")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApproval(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("UPDATE attendance_records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateApproval(context.Background(), "a1", ApprovalUpdate{
		Status:     models.StatusAdminApproved,
		ApprovedAt: time.Now(),
		ApprovedBy: "u3",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPresentOnDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("2026-08-30").
		WillReturnRows(sqlmock.NewRows([]string{"present", "total"}).AddRow(12, 15))

	present, total, err := repo.PresentOnDate(context.Background(), "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, 12, present)
	assert.Equal(t, 15, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
