package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/constructerp/attendance-api/internal/models"
)

const workerColumns = `id, name, father_name, designation, daily_wage, site_id, phone, aadhar, created_at`

// WorkerRepository provides database access for site labourers.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository creates a new instance of WorkerRepository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// FindByID returns a worker by identifier.
func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*models.Worker, error) {
	const query = `SELECT ` + workerColumns + ` FROM workers WHERE id = $1 LIMIT 1`
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find worker by id: %w", err)
	}
	return &worker, nil
}

// ListBySite returns all workers registered at a site.
func (r *WorkerRepository) ListBySite(ctx context.Context, siteID string) ([]models.Worker, error) {
	const query = `SELECT ` + workerColumns + ` FROM workers WHERE site_id = $1 ORDER BY name ASC`
	var workers []models.Worker
	if err := r.db.SelectContext(ctx, &workers, query, siteID); err != nil {
		return nil, fmt.Errorf("list workers by site: %w", err)
	}
	return workers, nil
}

// Create inserts a new worker.
func (r *WorkerRepository) Create(ctx context.Context, worker *models.Worker) error {
	if worker.ID == "" {
		worker.ID = uuid.NewString()
	}
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO workers (id, name, father_name, designation, daily_wage, site_id, phone, aadhar, created_at)
VALUES (:id, :name, :father_name, :designation, :daily_wage, :site_id, :phone, :aadhar, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a worker.
func (r *WorkerRepository) Update(ctx context.Context, worker *models.Worker) error {
	const query = `UPDATE workers SET name = :name, father_name = :father_name, designation = :designation, daily_wage = :daily_wage, phone = :phone, aadhar = :aadhar WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	return nil
}

// Delete removes a worker row.
func (r *WorkerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM workers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	return nil
}

// Count returns the total number of registered workers.
func (r *WorkerRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM workers`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count workers: %w", err)
	}
	return count, nil
}
