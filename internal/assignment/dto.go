package assignment

import (
	"time"

	"github.com/frahmantamala/docportal-access/internal"
)

type CreateAssignmentDTO struct {
	EmployeeID   string     `json:"employee_id"`
	DepartmentID string     `json:"department_id"`
	Position     string     `json:"position,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	IsPrimary    *bool      `json:"is_primary,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

func (d CreateAssignmentDTO) Validate() error {
	if d.EmployeeID == "" {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	if d.DepartmentID == "" {
		return internal.NewValidationError("department_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateAssignmentDTO is a patch; nil fields are left untouched.
type UpdateAssignmentDTO struct {
	Position  *string    `json:"position,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsPrimary *bool      `json:"is_primary,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

func (d UpdateAssignmentDTO) Validate() error {
	if d.StartDate != nil && d.EndDate != nil && !d.EndDate.After(*d.StartDate) {
		return internal.NewValidationError("end_date must be after start_date", internal.ErrCodeInvalidDate)
	}
	return nil
}

type AssignmentResponse struct {
	Assignment *Assignment `json:"assignment"`
}

type AssignmentsResponse struct {
	Assignments []*Assignment `json:"assignments"`
	Total       int           `json:"total"`
}
