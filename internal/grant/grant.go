package grant

import (
	"time"

	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
	"github.com/frahmantamala/docportal-access/internal/permission"
)

// Grant asserts that an entity scope holds a permission kind. Immutable
// once created except for revocation, which stamps revoked_at and keeps
// the row for audit history.
type Grant struct {
	ID           string           `json:"id"`
	Scope        permission.Scope `json:"entity_type"`
	EntityID     string           `json:"entity_id"`
	Permission   string           `json:"permission"`
	GrantedBy    string           `json:"granted_by,omitempty"`
	GrantedAt    time.Time        `json:"granted_at"`
	ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
	RevokedAt    *time.Time       `json:"revoked_at,omitempty"`
	RevokedBy    *string          `json:"revoked_by,omitempty"`
	TemplateName string           `json:"template_name,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// IsActive reports whether the grant is neither revoked nor expired at
// the given instant.
func (g *Grant) IsActive(asOf time.Time) bool {
	if g.RevokedAt != nil {
		return false
	}
	if g.ExpiresAt != nil && !g.ExpiresAt.After(asOf) {
		return false
	}
	return true
}

func (g *Grant) FromTemplate() bool {
	return g.TemplateName != ""
}

func ToDataModel(g *Grant) *permissionDatamodel.Grant {
	return &permissionDatamodel.Grant{
		ID:           g.ID,
		EntityType:   g.Scope.String(),
		EntityID:     g.EntityID,
		Permission:   g.Permission,
		GrantedBy:    g.GrantedBy,
		GrantedAt:    g.GrantedAt,
		ExpiresAt:    g.ExpiresAt,
		RevokedAt:    g.RevokedAt,
		RevokedBy:    g.RevokedBy,
		TemplateName: g.TemplateName,
		Notes:        g.Notes,
	}
}

func FromDataModel(g *permissionDatamodel.Grant) *Grant {
	return &Grant{
		ID:           g.ID,
		Scope:        permission.Scope(g.EntityType),
		EntityID:     g.EntityID,
		Permission:   g.Permission,
		GrantedBy:    g.GrantedBy,
		GrantedAt:    g.GrantedAt,
		ExpiresAt:    g.ExpiresAt,
		RevokedAt:    g.RevokedAt,
		RevokedBy:    g.RevokedBy,
		TemplateName: g.TemplateName,
		Notes:        g.Notes,
	}
}

func FromDataModels(rows []*permissionDatamodel.Grant) []*Grant {
	grants := make([]*Grant, len(rows))
	for i, row := range rows {
		grants[i] = FromDataModel(row)
	}
	return grants
}
