package department

import (
	"time"

	departmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/department"
)

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromDataModel(row *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          row.ID,
		Name:        row.Name,
		Code:        row.Code,
		Description: row.Description,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func FromDataModels(rows []*departmentDatamodel.Department) []*Department {
	departments := make([]*Department, len(rows))
	for i, row := range rows {
		departments[i] = FromDataModel(row)
	}
	return departments
}
