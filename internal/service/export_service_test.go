package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/pkg/export"
	"github.com/constructerp/attendance-api/pkg/storage"
)

type approvedRepoStub struct {
	records []models.AttendanceRecord
	limit   int
}

func (s *approvedRepoStub) FindApproved(ctx context.Context, limit int) ([]models.AttendanceRecord, error) {
	s.limit = limit
	return s.records, nil
}

func approvedFixture() []models.AttendanceRecord {
	comments := "cleared for payroll"
	approvedAt := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	return []models.AttendanceRecord{
		{
			ID: "rec-1", Date: "2026-03-02", SiteName: "Riverside Tower", ForemanName: "Foreman One",
			Status: models.StatusAdminApproved,
			Entries: models.EntryList{
				{WorkerID: "w1", WorkerName: "Ram", Designation: "Mason", IsPresent: true, FormulaX: 1, FormulaY: 4, HoursWorked: 12},
				{WorkerID: "w2", WorkerName: "Shyam", Designation: "Helper", IsPresent: true, FormulaX: 1, FormulaY: 0, HoursWorked: 8},
			},
			AdminComments: &comments,
			ApprovedAt:    &approvedAt,
		},
	}
}

func newExportServiceForTest(t *testing.T, repo *approvedRepoStub) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api", ResultTTL: time.Hour}
	svc := NewExportService(repo, store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func TestExportServiceGenerateCSV(t *testing.T) {
	repo := &approvedRepoStub{records: approvedFixture()}
	svc, store := newExportServiceForTest(t, repo)

	job := &models.ExportJob{
		ID:        "job-1",
		Type:      models.ExportTypeApprovedRegister,
		Params:    models.ExportJobParams{Format: "csv", Limit: 50},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	assert.Contains(t, result.URL, "/api/export/")
	assert.Equal(t, export.FormatCSV, result.Format)
	assert.Equal(t, 50, repo.limit)

	data, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Date,Site,Foreman,Worker")
	assert.Contains(t, content, "Ram")
	assert.Contains(t, content, "Riverside Tower")

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, result.RelativePath, relPath)
}

func TestExportServiceGeneratePDF(t *testing.T) {
	repo := &approvedRepoStub{records: approvedFixture()}
	svc, store := newExportServiceForTest(t, repo)

	job := &models.ExportJob{
		ID:     "job-2",
		Type:   models.ExportTypeApprovedRegister,
		Params: models.ExportJobParams{Format: "pdf"},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	repo := &approvedRepoStub{}
	svc, _ := newExportServiceForTest(t, repo)

	job := &models.ExportJob{
		ID:     "job-3",
		Type:   models.ExportTypeApprovedRegister,
		Params: models.ExportJobParams{Format: "xlsx"},
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}

func TestExportServiceCleanupSweepsOldFiles(t *testing.T) {
	repo := &approvedRepoStub{records: approvedFixture()}
	svc, store := newExportServiceForTest(t, repo)

	job := &models.ExportJob{
		ID:     "job-4",
		Type:   models.ExportTypeApprovedRegister,
		Params: models.ExportJobParams{Format: "csv"},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path(result.RelativePath), old, old))

	removed, err := svc.Cleanup(time.Hour)
	require.NoError(t, err)
	assert.Contains(t, removed, result.RelativePath)
}
