package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/frahmantamala/docportal-access/internal"
	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
	"github.com/frahmantamala/docportal-access/internal/core/events"
)

type RepositoryAPI interface {
	Create(row *permissionDatamodel.AuditLog) error
	List(filter Filter) ([]*permissionDatamodel.AuditLog, error)
	CountByTemplateName(name string) (int64, error)
}

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Service appends audit entries from permission domain events and serves
// the read side of the trail. Mutations publish their events
// synchronously, so a failed append fails the mutation with it.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RegisterHandlers wires the recorder to every event type that leaves a
// trace in the audit trail.
func (s *Service) RegisterHandlers(bus Subscriber) {
	bus.Subscribe(events.EventPermissionGranted, s.recordEvent)
	bus.Subscribe(events.EventPermissionRevoked, s.recordEvent)
	bus.Subscribe(events.EventAssignmentEnded, s.recordEvent)
	bus.Subscribe(events.EventTemplateApplied, s.recordEvent)
	bus.Subscribe(events.EventTemplateDeleted, s.recordEvent)
}

func (s *Service) recordEvent(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for event %s", event.EventType())
	}

	row := &permissionDatamodel.AuditLog{
		ID:          uuid.NewString(),
		PerformedAt: event.OccurredAt(),
	}

	switch event.EventType() {
	case events.EventPermissionGranted:
		row.Action = ActionGranted
		row.Permission = stringField(data, "permission")
		row.EntityType = stringField(data, "entity_type")
		row.EntityID = stringField(data, "entity_id")
		row.PerformedBy = stringField(data, "granted_by")
	case events.EventPermissionRevoked:
		row.Action = ActionRevoked
		row.Permission = stringField(data, "permission")
		row.EntityType = stringField(data, "entity_type")
		row.EntityID = stringField(data, "entity_id")
		row.PerformedBy = stringField(data, "revoked_by")
	case events.EventAssignmentEnded:
		row.Action = ActionAssignmentEnded
		row.EntityType = "user"
		row.EntityID = stringField(data, "employee_id")
		row.PerformedBy = stringField(data, "ended_by")
		row.Notes = "assignment " + stringField(data, "assignment_id") + " in department " + stringField(data, "department_id")
	case events.EventTemplateApplied:
		row.Action = ActionTemplateApplied
		row.EntityType = stringField(data, "entity_type")
		row.EntityID = stringField(data, "entity_id")
		row.TemplateName = stringField(data, "template_name")
		row.PerformedBy = stringField(data, "applied_by")
	case events.EventTemplateDeleted:
		row.Action = ActionTemplateDeleted
		row.TemplateName = stringField(data, "template_name")
		row.PerformedBy = stringField(data, "deleted_by")
	default:
		s.logger.Warn("ignoring event with no audit mapping", "event_type", event.EventType())
		return nil
	}

	if err := s.repo.Create(row); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (s *Service) List(filter Filter) ([]*Entry, error) {
	rows, err := s.repo.List(filter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list audit entries", err)
	}
	return FromDataModels(rows), nil
}

// CountByTemplateName backs the template delete guard.
func (s *Service) CountByTemplateName(name string) (int64, error) {
	return s.repo.CountByTemplateName(name)
}

func stringField(data map[string]interface{}, key string) string {
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}
