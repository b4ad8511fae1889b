package assignment

import (
	"time"

	assignmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/assignment"
)

// Assignment is a time-bounded employment link between a user and a
// department. Ending one stamps end_date; rows are never deleted.
type Assignment struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	DepartmentID string     `json:"department_id"`
	Position     string     `json:"position,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsPrimary    bool       `json:"is_primary"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive evaluates the validity interval at the given instant. A
// future-dated assignment becomes active as time passes with no explicit
// activation step.
func (a *Assignment) IsActive(asOf time.Time) bool {
	if a.StartDate.After(asOf) {
		return false
	}
	if a.EndDate != nil && !a.EndDate.After(asOf) {
		return false
	}
	return true
}

func (a *Assignment) IsEnded() bool {
	return a.EndDate != nil
}

func ToDataModel(a *Assignment) *assignmentDatamodel.EmployeeAssignment {
	return &assignmentDatamodel.EmployeeAssignment{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		DepartmentID: a.DepartmentID,
		Position:     a.Position,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		IsPrimary:    a.IsPrimary,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromDataModel(a *assignmentDatamodel.EmployeeAssignment) *Assignment {
	return &Assignment{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		DepartmentID: a.DepartmentID,
		Position:     a.Position,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		IsPrimary:    a.IsPrimary,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromDataModels(rows []*assignmentDatamodel.EmployeeAssignment) []*Assignment {
	assignments := make([]*Assignment, len(rows))
	for i, row := range rows {
		assignments[i] = FromDataModel(row)
	}
	return assignments
}
