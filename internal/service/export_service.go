package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/pkg/export"
	"github.com/constructerp/attendance-api/pkg/storage"
)

type exportAttendanceRepository interface {
	FindApproved(ctx context.Context, limit int) ([]models.AttendanceRecord, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	Sweep(maxAge time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       export.Format
	ExpiresAt    time.Time
}

// ExportService renders the approved attendance register and persists the files.
type ExportService struct {
	attendance exportAttendanceRepository
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(attendance exportAttendanceRepository, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		attendance: attendance,
		storage:    files,
		csv:        csv,
		pdf:        pdf,
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
	}
}

// Generate builds the register table for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	format, err := export.ParseFormat(job.Params.Format)
	if err != nil {
		return nil, err
	}
	table, err := s.buildTable(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case export.FormatCSV:
		payload, err = s.csv.Render(table)
	case export.FormatPDF:
		payload, err = s.pdf.Render(table)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job, format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}
	signedURL := fmt.Sprintf("%s/export/%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.Sweep(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob, format export.Format) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s%s", strings.ToLower(string(job.Type)), timestamp, format.Extension())
}

func (s *ExportService) buildTable(ctx context.Context, job *models.ExportJob) (export.Table, error) {
	switch job.Type {
	case models.ExportTypeApprovedRegister:
		return s.buildRegisterTable(ctx, job.Params)
	default:
		return export.Table{}, fmt.Errorf("unsupported export type %s", job.Type)
	}
}

// buildRegisterTable flattens approved records into one row per worker entry
// so wages can be computed straight off the register.
func (s *ExportService) buildRegisterTable(ctx context.Context, params models.ExportJobParams) (export.Table, error) {
	records, err := s.attendance.FindApproved(ctx, params.Limit)
	if err != nil {
		return export.Table{}, err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		for _, entry := range rec.Entries {
			rows = append(rows, []string{
				rec.Date,
				rec.SiteName,
				rec.ForemanName,
				entry.WorkerName,
				entry.Designation,
				fmt.Sprintf("%d", entry.FormulaX),
				fmt.Sprintf("%d", entry.FormulaY),
				fmt.Sprintf("%d", entry.HoursWorked),
				deref(rec.AdminComments),
				formatExportTime(rec.ApprovedAt),
			})
		}
	}

	return export.Table{
		Title:   "Approved Attendance Register",
		Headers: []string{"Date", "Site", "Foreman", "Worker", "Designation", "Days (X)", "Hours (Y)", "Total Hours", "Admin Comments", "Approved At"},
		Rows:    rows,
	}, nil
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
