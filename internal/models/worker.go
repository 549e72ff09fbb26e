package models

import "time"

// Worker represents a labourer registered at a site.
type Worker struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	FatherName  string    `db:"father_name" json:"father_name"`
	Designation string    `db:"designation" json:"designation"`
	DailyWage   float64   `db:"daily_wage" json:"daily_wage"`
	SiteID      string    `db:"site_id" json:"site_id"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Aadhar      *string   `db:"aadhar" json:"aadhar,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CreateWorkerRequest is the foreman payload for registering a worker.
type CreateWorkerRequest struct {
	Name        string  `json:"name" validate:"required"`
	FatherName  string  `json:"father_name" validate:"required"`
	Designation string  `json:"designation" validate:"required"`
	DailyWage   float64 `json:"daily_wage" validate:"required,gt=0"`
	SiteID      string  `json:"site_id" validate:"required"`
	Phone       *string `json:"phone,omitempty"`
	Aadhar      *string `json:"aadhar,omitempty"`
}

// UpdateWorkerRequest carries editable worker fields.
type UpdateWorkerRequest struct {
	Name        *string  `json:"name,omitempty"`
	FatherName  *string  `json:"father_name,omitempty"`
	Designation *string  `json:"designation,omitempty"`
	DailyWage   *float64 `json:"daily_wage,omitempty" validate:"omitempty,gt=0"`
	Phone       *string  `json:"phone,omitempty"`
	Aadhar      *string  `json:"aadhar,omitempty"`
}
