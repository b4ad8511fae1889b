package template

import (
	"time"

	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
)

// Template is a named, reusable bundle of permission kinds for bulk
// application. Editing a template never rewrites grants it already
// materialized; correlation survives only through the template name
// stamped on each grant.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   string    `json:"created_by,omitempty"`
	UsageCount  int       `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Template) Contains(permissionKey string) bool {
	for _, key := range t.Permissions {
		if key == permissionKey {
			return true
		}
	}
	return false
}

func ToDataModel(t *Template) *permissionDatamodel.PermissionTemplate {
	return &permissionDatamodel.PermissionTemplate{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Permissions: t.Permissions,
		IsActive:    t.IsActive,
		CreatedBy:   t.CreatedBy,
		UsageCount:  t.UsageCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *permissionDatamodel.PermissionTemplate) *Template {
	return &Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Permissions: t.Permissions,
		IsActive:    t.IsActive,
		CreatedBy:   t.CreatedBy,
		UsageCount:  t.UsageCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModels(rows []*permissionDatamodel.PermissionTemplate) []*Template {
	templates := make([]*Template, len(rows))
	for i, row := range rows {
		templates[i] = FromDataModel(row)
	}
	return templates
}
