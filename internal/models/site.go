package models

import "time"

// Site represents a construction site.
// InchargeName mirrors the assigned incharge's display name and is
// recomputed whenever the incharge assignment changes.
type Site struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Location     string    `db:"location" json:"location"`
	InchargeID   *string   `db:"incharge_id" json:"incharge_id,omitempty"`
	InchargeName *string   `db:"incharge_name" json:"incharge_name,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CreateSiteRequest is the admin payload for registering a site.
type CreateSiteRequest struct {
	Name       string  `json:"name" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	InchargeID *string `json:"incharge_id,omitempty"`
}

// UpdateSiteRequest carries editable site fields.
type UpdateSiteRequest struct {
	Name       *string `json:"name,omitempty"`
	Location   *string `json:"location,omitempty"`
	InchargeID *string `json:"incharge_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}
