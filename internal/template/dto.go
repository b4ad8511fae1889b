package template

import (
	"strings"
	"time"

	"github.com/frahmantamala/docportal-access/internal"
)

type CreateTemplateDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (d *CreateTemplateDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("template name is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Permissions) == 0 {
		return internal.NewValidationError("template must contain at least one permission", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateTemplateDTO struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

func (d *UpdateTemplateDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationError("template name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Permissions != nil && len(*d.Permissions) == 0 {
		return internal.NewValidationError("template must contain at least one permission", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ApplyTarget struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

type ApplyTemplateDTO struct {
	Targets   []ApplyTarget `json:"targets"`
	Overwrite bool          `json:"overwrite"`
}

func (d *ApplyTemplateDTO) Validate() error {
	if len(d.Targets) == 0 {
		return internal.NewValidationError("at least one target is required", internal.ErrCodeValidationFailed)
	}
	for _, target := range d.Targets {
		if strings.TrimSpace(target.EntityType) == "" || strings.TrimSpace(target.EntityID) == "" {
			return internal.NewValidationError("each target needs an entity_type and entity_id", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

const (
	TargetStatusApplied = "applied"
	TargetStatusSkipped = "skipped"
	TargetStatusFailed  = "failed"
)

// TargetResult records what happened to a single target during
// template application. A target already holding every template
// permission is skipped; a failed target never aborts the batch.
type TargetResult struct {
	EntityType     string   `json:"entity_type"`
	EntityID       string   `json:"entity_id"`
	Status         string   `json:"status"`
	Granted        []string `json:"granted,omitempty"`
	AlreadyPresent []string `json:"already_present,omitempty"`
	Revoked        []string `json:"revoked,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type ApplicationReport struct {
	TemplateID   string         `json:"template_id"`
	TemplateName string         `json:"template_name"`
	Overwrite    bool           `json:"overwrite"`
	AppliedAt    time.Time      `json:"applied_at"`
	AppliedCount int            `json:"applied_count"`
	SkippedCount int            `json:"skipped_count"`
	FailedCount  int            `json:"failed_count"`
	Targets      []TargetResult `json:"targets"`
}

type TemplateResponse struct {
	Template *Template `json:"template"`
}

type TemplatesResponse struct {
	Templates []*Template `json:"templates"`
	Total     int         `json:"total"`
}
