package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/internal/repository"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records          map[string]*models.AttendanceRecord
	created          *models.AttendanceRecord
	createErr        error
	exists           bool
	reviewUpdate     *repository.ReviewUpdate
	reviewAffected   int64
	approvalUpdate   *repository.ApprovalUpdate
	approvalAffected int64
	recentSiteID     *string
	recentCalled     bool
}

func (m *mockAttendanceRepo) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	rec.ID = "rec-1"
	copy := *rec
	m.created = &copy
	return nil
}

func (m *mockAttendanceRepo) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	if rec, ok := m.records[id]; ok {
		copy := *rec
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) ExistsForDate(ctx context.Context, foremanID, date string) (bool, error) {
	return m.exists, nil
}

func (m *mockAttendanceRepo) FindPendingForSite(ctx context.Context, siteID string) ([]models.AttendanceRecord, error) {
	var recs []models.AttendanceRecord
	for _, r := range m.records {
		if r.SiteID == siteID && r.Status == models.StatusSubmitted {
			recs = append(recs, *r)
		}
	}
	return recs, nil
}

func (m *mockAttendanceRepo) FindPendingAdmin(ctx context.Context) ([]models.AttendanceRecord, error) {
	var recs []models.AttendanceRecord
	for _, r := range m.records {
		if r.Status == models.StatusInchargeReviewed {
			recs = append(recs, *r)
		}
	}
	return recs, nil
}

func (m *mockAttendanceRepo) FindApproved(ctx context.Context, limit int) ([]models.AttendanceRecord, error) {
	var recs []models.AttendanceRecord
	for _, r := range m.records {
		if r.Status == models.StatusAdminApproved {
			recs = append(recs, *r)
		}
	}
	return recs, nil
}

func (m *mockAttendanceRepo) FindRecent(ctx context.Context, siteID *string, limit int) ([]models.AttendanceRecord, error) {
	m.recentCalled = true
	m.recentSiteID = siteID
	return []models.AttendanceRecord{}, nil
}

func (m *mockAttendanceRepo) FindByForeman(ctx context.Context, foremanID string) ([]models.AttendanceRecord, error) {
	var recs []models.AttendanceRecord
	for _, r := range m.records {
		if r.ForemanID == foremanID {
			recs = append(recs, *r)
		}
	}
	return recs, nil
}

func (m *mockAttendanceRepo) UpdateReview(ctx context.Context, id string, upd repository.ReviewUpdate) (int64, error) {
	m.reviewUpdate = &upd
	return m.reviewAffected, nil
}

func (m *mockAttendanceRepo) UpdateApproval(ctx context.Context, id string, upd repository.ApprovalUpdate) (int64, error) {
	m.approvalUpdate = &upd
	return m.approvalAffected, nil
}

type mockWorkerRepo struct {
	workers []models.Worker
}

func (m *mockWorkerRepo) ListBySite(ctx context.Context, siteID string) ([]models.Worker, error) {
	return m.workers, nil
}

type mockSiteRepo struct {
	sites map[string]*models.Site
}

func (m *mockSiteRepo) FindByID(ctx context.Context, id string) (*models.Site, error) {
	if site, ok := m.sites[id]; ok {
		copy := *site
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

type mockCache struct {
	store           map[string][]byte
	deletedKeys     []string
	deletedPatterns []string
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = data
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.deletedKeys = append(m.deletedKeys, key)
	delete(m.store, key)
	return nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletedPatterns = append(m.deletedPatterns, pattern)
	return nil
}

func siteIDPtr(id string) *string { return &id }

func newAttendanceFixture(repo *mockAttendanceRepo) (*AttendanceService, *mockCache) {
	cache := newMockCache()
	workers := &mockWorkerRepo{workers: []models.Worker{
		{ID: "w1", Name: "Ram", Designation: "Mason", SiteID: "site-1"},
		{ID: "w2", Name: "Shyam", Designation: "Helper", SiteID: "site-1"},
		{ID: "w3", Name: "Mohan", Designation: "Carpenter", SiteID: "site-1"},
	}}
	sites := &mockSiteRepo{sites: map[string]*models.Site{
		"site-1": {ID: "site-1", Name: "Riverside Tower", IsActive: true},
	}}
	svc := NewAttendanceService(repo, workers, sites, cache, nil, nil, AttendanceConfig{})
	return svc, cache
}

func foremanActor() *models.User {
	return &models.User{ID: "f1", Username: "foreman1", Role: models.RoleForeman, Name: "Foreman One", SiteID: siteIDPtr("site-1")}
}

func inchargeActor() *models.User {
	return &models.User{ID: "i1", Username: "incharge1", Role: models.RoleSiteIncharge, Name: "Incharge One", SiteID: siteIDPtr("site-1")}
}

func adminActor() *models.User {
	return &models.User{ID: "a1", Username: "admin", Role: models.RoleAdmin, Name: "Admin"}
}

func submittedRecord() *models.AttendanceRecord {
	return &models.AttendanceRecord{
		ID:          "rec-1",
		Date:        "2026-03-02",
		SiteID:      "site-1",
		SiteName:    "Riverside Tower",
		ForemanID:   "f1",
		ForemanName: "Foreman One",
		Status:      models.StatusSubmitted,
		Entries: models.EntryList{
			{WorkerID: "w1", WorkerName: "Ram", Designation: "Mason", IsPresent: true, FormulaX: 1, FormulaY: 0, HoursWorked: 8},
			{WorkerID: "w2", WorkerName: "Shyam", Designation: "Helper", IsPresent: true, FormulaX: 1, FormulaY: 4, HoursWorked: 12},
			{WorkerID: "w3", WorkerName: "Mohan", Designation: "Carpenter", IsPresent: false},
		},
		TotalWorkers:   3,
		PresentWorkers: 2,
		SubmittedAt:    time.Now().UTC(),
		CreatedBy:      "f1",
	}
}

func TestSubmitClampsFormulaHours(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc, cache := newAttendanceFixture(repo)

	rec, err := svc.Submit(context.Background(), foremanActor(), models.SubmitAttendanceRequest{
		Date: "2026-03-02",
		Entries: []models.SubmitEntry{
			{WorkerID: "w1", IsPresent: true, FormulaX: 1, FormulaY: 12},
			{WorkerID: "w2", IsPresent: false, FormulaX: 3, FormulaY: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, rec.Entries, 2)

	assert.Equal(t, 1, rec.Entries[0].FormulaX)
	assert.Equal(t, 7, rec.Entries[0].FormulaY)
	assert.Equal(t, 15, rec.Entries[0].HoursWorked)

	assert.False(t, rec.Entries[1].IsPresent)
	assert.Zero(t, rec.Entries[1].HoursWorked)

	assert.Equal(t, models.StatusSubmitted, rec.Status)
	assert.Equal(t, 2, rec.TotalWorkers)
	assert.Equal(t, 1, rec.PresentWorkers)
	assert.Contains(t, cache.deletedPatterns, "dashboard:*")
	assert.Contains(t, cache.deletedKeys, draftKey("f1", "2026-03-02"))
}

func TestSubmitRejectsUnknownWorker(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.Submit(context.Background(), foremanActor(), models.SubmitAttendanceRequest{
		Date:    "2026-03-02",
		Entries: []models.SubmitEntry{{WorkerID: "ghost", IsPresent: true, FormulaX: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmitRequiresPresentWorker(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.Submit(context.Background(), foremanActor(), models.SubmitAttendanceRequest{
		Date:    "2026-03-02",
		Entries: []models.SubmitEntry{{WorkerID: "w1"}, {WorkerID: "w2"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmitForemanOnly(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.Submit(context.Background(), inchargeActor(), models.SubmitAttendanceRequest{
		Date:    "2026-03-02",
		Entries: []models.SubmitEntry{{WorkerID: "w1", IsPresent: true, FormulaX: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmitDuplicateDate(t *testing.T) {
	repo := &mockAttendanceRepo{createErr: appErrors.Clone(appErrors.ErrConflict, "attendance already submitted for this date")}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.Submit(context.Background(), foremanActor(), models.SubmitAttendanceRequest{
		Date:    "2026-03-02",
		Entries: []models.SubmitEntry{{WorkerID: "w1", IsPresent: true, FormulaX: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestReviewApproveForwardsPresentOnly(t *testing.T) {
	rec := submittedRecord()
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, reviewAffected: 1}
	svc, cache := newAttendanceFixture(repo)

	absent := false
	updated, err := svc.Review(context.Background(), inchargeActor(), rec.ID, models.ReviewRequest{
		Action:           models.ReviewActionApprove,
		Edits:            []models.ReviewEntryEdit{{WorkerID: "w2", IsPresent: &absent}},
		CheckedWorkerIDs: []string{"w1"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInchargeReviewed, updated.Status)
	require.Len(t, updated.Entries, 1)
	assert.Equal(t, "w1", updated.Entries[0].WorkerID)
	assert.Equal(t, 1, updated.TotalWorkers)
	assert.Equal(t, 1, updated.PresentWorkers)
	require.NotNil(t, repo.reviewUpdate)
	assert.Equal(t, models.StatusInchargeReviewed, repo.reviewUpdate.Status)
	assert.Contains(t, cache.deletedPatterns, "dashboard:*")
}

func TestReviewApproveRequiresChecklist(t *testing.T) {
	rec := submittedRecord()
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, reviewAffected: 1}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.Review(context.Background(), inchargeActor(), rec.ID, models.ReviewRequest{
		Action:           models.ReviewActionApprove,
		CheckedWorkerIDs: []string{"w1"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewEditsReencodeHours(t *testing.T) {
	rec := submittedRecord()
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, reviewAffected: 1}
	svc, _ := newAttendanceFixture(repo)

	x, y := 2, 11
	updated, err := svc.Review(context.Background(), inchargeActor(), rec.ID, models.ReviewRequest{
		Action:           models.ReviewActionApprove,
		Edits:            []models.ReviewEntryEdit{{WorkerID: "w1", FormulaX: &x, FormulaY: &y}},
		CheckedWorkerIDs: []string{"w1", "w2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Entries[0].FormulaX)
	assert.Equal(t, 7, updated.Entries[0].FormulaY)
	assert.Equal(t, 23, updated.Entries[0].HoursWorked)
}

func TestReviewRejectKeepsAllEntries(t *testing.T) {
	rec := submittedRecord()
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, reviewAffected: 1}
	svc, _ := newAttendanceFixture(repo)

	comments := "sheet does not match gate log"
	updated, err := svc.Review(context.Background(), inchargeActor(), rec.ID, models.ReviewRequest{
		Action:   models.ReviewActionReject,
		Comments: &comments,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, updated.Status)
	assert.Len(t, updated.Entries, 3)
	assert.Equal(t, 3, updated.TotalWorkers)
	assert.Equal(t, 2, updated.PresentWorkers)
	require.NotNil(t, updated.InchargeComments)
	assert.Equal(t, comments, *updated.InchargeComments)
}

func TestReviewWrongSite(t *testing.T) {
	rec := submittedRecord()
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, reviewAffected: 1}
	svc, _ := newAttendanceFixture(repo)

	actor := inchargeActor()
	actor.SiteID = siteIDPtr("site-2")
	_, err := svc.Review(context.Background(), actor, rec.ID, models.ReviewRequest{Action: models.ReviewActionReject})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReviewConflictWhenNotSubmitted(t *testing.T) {
	rec := submittedRecord()
	rec.Status = models.StatusInchargeReviewed
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, reviewAffected: 1}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.Review(context.Background(), inchargeActor(), rec.ID, models.ReviewRequest{Action: models.ReviewActionReject})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestReviewStaleUpdate(t *testing.T) {
	rec := submittedRecord()
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, reviewAffected: 0}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.Review(context.Background(), inchargeActor(), rec.ID, models.ReviewRequest{Action: models.ReviewActionReject})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAdminDecideApprove(t *testing.T) {
	rec := submittedRecord()
	rec.Status = models.StatusInchargeReviewed
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, approvalAffected: 1}
	svc, cache := newAttendanceFixture(repo)

	comments := "cleared for payroll"
	updated, err := svc.AdminDecide(context.Background(), adminActor(), rec.ID, models.AdminDecisionRequest{
		Action:   models.ReviewActionApprove,
		Comments: &comments,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusAdminApproved, updated.Status)
	require.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, "a1", *updated.ApprovedBy)
	require.NotNil(t, repo.approvalUpdate)
	assert.Equal(t, models.StatusAdminApproved, repo.approvalUpdate.Status)
	assert.Contains(t, cache.deletedPatterns, "dashboard:*")
}

func TestAdminDecideRequiresReviewedStatus(t *testing.T) {
	rec := submittedRecord()
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, approvalAffected: 1}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.AdminDecide(context.Background(), adminActor(), rec.ID, models.AdminDecisionRequest{Action: models.ReviewActionApprove})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAdminDecideAdminOnly(t *testing.T) {
	rec := submittedRecord()
	rec.Status = models.StatusInchargeReviewed
	repo := &mockAttendanceRepo{records: map[string]*models.AttendanceRecord{rec.ID: rec}, approvalAffected: 1}
	svc, _ := newAttendanceFixture(repo)

	_, err := svc.AdminDecide(context.Background(), inchargeActor(), rec.ID, models.AdminDecisionRequest{Action: models.ReviewActionApprove})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRecentForRoleScoping(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc, _ := newAttendanceFixture(repo)

	recs, err := svc.RecentForRole(context.Background(), foremanActor())
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.False(t, repo.recentCalled)

	_, err = svc.RecentForRole(context.Background(), inchargeActor())
	require.NoError(t, err)
	require.NotNil(t, repo.recentSiteID)
	assert.Equal(t, "site-1", *repo.recentSiteID)

	_, err = svc.RecentForRole(context.Background(), adminActor())
	require.NoError(t, err)
	assert.Nil(t, repo.recentSiteID)
}

func TestDraftRoundTrip(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc, _ := newAttendanceFixture(repo)
	actor := foremanActor()

	err := svc.SaveDraft(context.Background(), actor, models.AttendanceDraft{
		Date:    "2026-03-02",
		Entries: []models.SubmitEntry{{WorkerID: "w1", IsPresent: true, FormulaX: 1}},
	})
	require.NoError(t, err)

	draft, err := svc.GetDraft(context.Background(), actor, "2026-03-02")
	require.NoError(t, err)
	assert.Len(t, draft.Entries, 1)
	assert.False(t, draft.SavedAt.IsZero())

	_, err = svc.GetDraft(context.Background(), actor, "2026-03-03")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
