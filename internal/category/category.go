package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/category"
)

// Category is a document grouping. Public categories are visible to
// every user; private ones require a category-scope grant.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromDataModel(row *categoryDatamodel.DocumentCategory) *Category {
	return &Category{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		IsPublic:    row.IsPublic,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func FromDataModels(rows []*categoryDatamodel.DocumentCategory) []*Category {
	categories := make([]*Category, len(rows))
	for i, row := range rows {
		categories[i] = FromDataModel(row)
	}
	return categories
}
