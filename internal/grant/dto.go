package grant

import (
	"time"

	"github.com/frahmantamala/docportal-access/internal"
)

type GrantPermissionDTO struct {
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Permission string     `json:"permission"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

func (d GrantPermissionDTO) Validate() error {
	if d.EntityType == "" {
		return internal.NewValidationError("entity_type is required", internal.ErrCodeValidationFailed)
	}
	if d.EntityID == "" {
		return internal.NewValidationError("entity_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Permission == "" {
		return internal.NewValidationError("permission is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type GrantResponse struct {
	Grant *Grant `json:"grant"`
	// Existing is true when the request matched an already-active grant
	// and no new row was created.
	Existing bool `json:"existing"`
}

type GrantsResponse struct {
	Grants []*Grant `json:"grants"`
	Total  int      `json:"total"`
}
