package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleForeman      UserRole = "foreman"
	RoleSiteIncharge UserRole = "site_incharge"
	RoleAdmin        UserRole = "admin"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleForeman, RoleSiteIncharge, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
// Foremen and site incharges are scoped to one site; admins are not.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Name         string    `db:"name" json:"name"`
	FatherName   *string   `db:"father_name" json:"father_name,omitempty"`
	Email        *string   `db:"email" json:"email,omitempty"`
	SiteID       *string   `db:"site_id" json:"site_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CreateUserRequest is the admin payload for provisioning an account.
// Only field staff roles can be created through the API.
type CreateUserRequest struct {
	Username   string   `json:"username" validate:"required,min=3"`
	Password   string   `json:"password" validate:"required,min=6"`
	Role       UserRole `json:"role" validate:"required,oneof=foreman site_incharge"`
	Name       string   `json:"name" validate:"required"`
	FatherName *string  `json:"father_name,omitempty"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email"`
	SiteID     *string  `json:"site_id,omitempty"`
}

// UpdateUserRequest carries the editable fields of an account.
type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	FatherName *string `json:"father_name,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	SiteID     *string `json:"site_id,omitempty"`
	Password   *string `json:"password,omitempty" validate:"omitempty,min=6"`
}
