package audit

import (
	"time"

	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
)

// Actions recorded in the permission audit trail.
const (
	ActionGranted         = "granted"
	ActionRevoked         = "revoked"
	ActionAssignmentEnded = "assignment_ended"
	ActionTemplateApplied = "template_applied"
	ActionTemplateDeleted = "template_deleted"
)

// Entry is one immutable row of the permission audit trail. Entries are
// only ever appended; nothing in the system updates or deletes them.
type Entry struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	Permission   string    `json:"permission,omitempty"`
	EntityType   string    `json:"entity_type,omitempty"`
	EntityID     string    `json:"entity_id,omitempty"`
	TemplateName string    `json:"template_name,omitempty"`
	PerformedBy  string    `json:"performed_by"`
	PerformedAt  time.Time `json:"performed_at"`
	Notes        string    `json:"notes,omitempty"`
}

func ToDataModel(e *Entry) *permissionDatamodel.AuditLog {
	return &permissionDatamodel.AuditLog{
		ID:           e.ID,
		Action:       e.Action,
		Permission:   e.Permission,
		EntityType:   e.EntityType,
		EntityID:     e.EntityID,
		TemplateName: e.TemplateName,
		PerformedBy:  e.PerformedBy,
		PerformedAt:  e.PerformedAt,
		Notes:        e.Notes,
	}
}

func FromDataModel(row *permissionDatamodel.AuditLog) *Entry {
	return &Entry{
		ID:           row.ID,
		Action:       row.Action,
		Permission:   row.Permission,
		EntityType:   row.EntityType,
		EntityID:     row.EntityID,
		TemplateName: row.TemplateName,
		PerformedBy:  row.PerformedBy,
		PerformedAt:  row.PerformedAt,
		Notes:        row.Notes,
	}
}

func FromDataModels(rows []*permissionDatamodel.AuditLog) []*Entry {
	entries := make([]*Entry, len(rows))
	for i, row := range rows {
		entries[i] = FromDataModel(row)
	}
	return entries
}

// Filter narrows audit listings; zero values match everything.
type Filter struct {
	Action       string
	EntityType   string
	EntityID     string
	PerformedBy  string
	TemplateName string
	Limit        int
}
