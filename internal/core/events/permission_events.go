package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventPermissionGranted = "permission.granted"
	EventPermissionRevoked = "permission.revoked"
	EventAssignmentEnded   = "assignment.ended"
	EventTemplateApplied   = "template.applied"
	EventTemplateDeleted   = "template.deleted"
)

func NewPermissionGrantedEvent(grantID, entityType, entityID, permission, grantedBy string) BaseEvent {
	return newEvent(EventPermissionGranted, map[string]interface{}{
		"grant_id":    grantID,
		"entity_type": entityType,
		"entity_id":   entityID,
		"permission":  permission,
		"granted_by":  grantedBy,
	})
}

func NewPermissionRevokedEvent(grantID, entityType, entityID, permission, revokedBy string) BaseEvent {
	return newEvent(EventPermissionRevoked, map[string]interface{}{
		"grant_id":    grantID,
		"entity_type": entityType,
		"entity_id":   entityID,
		"permission":  permission,
		"revoked_by":  revokedBy,
	})
}

func NewAssignmentEndedEvent(assignmentID, employeeID, departmentID, endedBy string) BaseEvent {
	return newEvent(EventAssignmentEnded, map[string]interface{}{
		"assignment_id": assignmentID,
		"employee_id":   employeeID,
		"department_id": departmentID,
		"ended_by":      endedBy,
	})
}

func NewTemplateAppliedEvent(templateName, entityType, entityID, appliedBy string, applied, skipped int) BaseEvent {
	return newEvent(EventTemplateApplied, map[string]interface{}{
		"template_name": templateName,
		"entity_type":   entityType,
		"entity_id":     entityID,
		"applied_by":    appliedBy,
		"applied":       applied,
		"skipped":       skipped,
	})
}

func NewTemplateDeletedEvent(templateName, deletedBy string, forced bool) BaseEvent {
	return newEvent(EventTemplateDeleted, map[string]interface{}{
		"template_name": templateName,
		"deleted_by":    deletedBy,
		"forced":        forced,
	})
}

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
