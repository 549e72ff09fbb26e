package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AttendanceStatus tracks a record through the three-tier approval chain.
type AttendanceStatus string

const (
	StatusSubmitted        AttendanceStatus = "submitted"
	StatusInchargeReviewed AttendanceStatus = "incharge_reviewed"
	StatusAdminApproved    AttendanceStatus = "admin_approved"
	StatusRejected         AttendanceStatus = "rejected"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInchargeReviewed, StatusAdminApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s AttendanceStatus) Terminal() bool {
	return s == StatusAdminApproved || s == StatusRejected
}

// CanTransition reports whether moving from s to the target status is a
// legal workflow step.
func (s AttendanceStatus) CanTransition(to AttendanceStatus) bool {
	switch s {
	case StatusSubmitted:
		return to == StatusInchargeReviewed || to == StatusRejected
	case StatusInchargeReviewed:
		return to == StatusAdminApproved || to == StatusRejected
	default:
		return false
	}
}

// AttendanceEntry is one worker's line in a daily record. HoursWorked is
// always derived from the formula fields, never stored independently.
type AttendanceEntry struct {
	WorkerID    string `json:"worker_id"`
	WorkerName  string `json:"worker_name"`
	Designation string `json:"designation"`
	IsPresent   bool   `json:"is_present"`
	FormulaX    int    `json:"formula_x"`
	FormulaY    int    `json:"formula_y"`
	HoursWorked int    `json:"hours_worked"`
	Remarks     string `json:"remarks,omitempty"`
}

// EntryList is the JSONB column holding a record's entries.
type EntryList []AttendanceEntry

// Value marshals the entries to JSON for persistence.
func (l EntryList) Value() (driver.Value, error) {
	if l == nil {
		l = EntryList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal attendance entries: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the entry list.
func (l *EntryList) Scan(value interface{}) error {
	if value == nil {
		*l = EntryList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for EntryList", value)
	}
	if len(data) == 0 {
		*l = EntryList{}
		return nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return fmt.Errorf("unmarshal attendance entries: %w", err)
	}
	return nil
}

// AttendanceRecord is one foreman's attendance sheet for one day.
// Records are never deleted; rejected sheets stay for the register.
type AttendanceRecord struct {
	ID               string           `db:"id" json:"id"`
	Date             string           `db:"date" json:"date"`
	SiteID           string           `db:"site_id" json:"site_id"`
	SiteName         string           `db:"site_name" json:"site_name"`
	ForemanID        string           `db:"foreman_id" json:"foreman_id"`
	ForemanName      string           `db:"foreman_name" json:"foreman_name"`
	Entries          EntryList        `db:"entries" json:"entries"`
	Status           AttendanceStatus `db:"status" json:"status"`
	InTime           *string          `db:"in_time" json:"in_time,omitempty"`
	OutTime          *string          `db:"out_time" json:"out_time,omitempty"`
	TotalWorkers     int              `db:"total_workers" json:"total_workers"`
	PresentWorkers   int              `db:"present_workers" json:"present_workers"`
	InchargeComments *string          `db:"incharge_comments" json:"incharge_comments,omitempty"`
	AdminComments    *string          `db:"admin_comments" json:"admin_comments,omitempty"`
	SubmittedAt      time.Time        `db:"submitted_at" json:"submitted_at"`
	ReviewedAt       *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ApprovedAt       *time.Time       `db:"approved_at" json:"approved_at,omitempty"`
	CreatedBy        string           `db:"created_by" json:"created_by"`
	ReviewedBy       *string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ApprovedBy       *string          `db:"approved_by" json:"approved_by,omitempty"`
}

// SubmitEntry is one worker's line as sent by the foreman. Hours are
// supplied through the formula fields only.
type SubmitEntry struct {
	WorkerID  string `json:"worker_id" validate:"required"`
	IsPresent bool   `json:"is_present"`
	FormulaX  int    `json:"formula_x" validate:"min=0"`
	FormulaY  int    `json:"formula_y"`
	Remarks   string `json:"remarks,omitempty"`
}

// SubmitAttendanceRequest is the foreman's daily submission payload.
type SubmitAttendanceRequest struct {
	Date    string        `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []SubmitEntry `json:"entries" validate:"required,min=1,dive"`
	InTime  *string       `json:"in_time,omitempty"`
	OutTime *string       `json:"out_time,omitempty"`
}

// ReviewAction is the incharge's verdict on a submitted record.
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
)

// ReviewEntryEdit overrides a single worker's line during review. Nil
// fields leave the foreman's values untouched.
type ReviewEntryEdit struct {
	WorkerID  string  `json:"worker_id" validate:"required"`
	IsPresent *bool   `json:"is_present,omitempty"`
	FormulaX  *int    `json:"formula_x,omitempty" validate:"omitempty,min=0"`
	FormulaY  *int    `json:"formula_y,omitempty"`
	Remarks   *string `json:"remarks,omitempty"`
}

// ReviewRequest is the incharge's decision payload. CheckedWorkerIDs is
// the verification checklist; approval requires it to cover every worker
// still marked present after the edits are applied.
type ReviewRequest struct {
	Action           ReviewAction      `json:"action" validate:"required,oneof=approve reject"`
	Edits            []ReviewEntryEdit `json:"edits,omitempty" validate:"omitempty,dive"`
	CheckedWorkerIDs []string          `json:"checked_worker_ids,omitempty"`
	Comments         *string           `json:"comments,omitempty"`
}

// AdminDecisionRequest is the admin's final approve/reject payload.
type AdminDecisionRequest struct {
	Action   ReviewAction `json:"action" validate:"required,oneof=approve reject"`
	Comments *string      `json:"comments,omitempty"`
}

// AttendanceDraft is an unsubmitted sheet parked in the cache so the
// foreman can resume it later.
type AttendanceDraft struct {
	Date    string        `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []SubmitEntry `json:"entries" validate:"omitempty,dive"`
	InTime  *string       `json:"in_time,omitempty"`
	OutTime *string       `json:"out_time,omitempty"`
	SavedAt time.Time     `json:"saved_at"`
}
