package template

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/docportal-access/internal"
	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
	"github.com/frahmantamala/docportal-access/internal/core/events"
	"github.com/frahmantamala/docportal-access/internal/grant"
	"github.com/frahmantamala/docportal-access/internal/permission"
)

type RepositoryAPI interface {
	Create(row *permissionDatamodel.PermissionTemplate) error
	GetByID(id string) (*permissionDatamodel.PermissionTemplate, error)
	GetByName(name string) (*permissionDatamodel.PermissionTemplate, error)
	Update(row *permissionDatamodel.PermissionTemplate) error
	Delete(id string) error
	ListAll() ([]*permissionDatamodel.PermissionTemplate, error)
	IncrementUsage(id string, delta int) error
}

// GrantAPI is the slice of the grant service the applicator needs.
type GrantAPI interface {
	Grant(ctx context.Context, scope permission.Scope, entityID, permissionKey, grantedBy string, opts grant.GrantOptions) (*grant.Grant, bool, error)
	Revoke(ctx context.Context, grantID, actor string) error
	ActiveGrantsFor(scope permission.Scope, entityID string, asOf time.Time) ([]*grant.Grant, error)
}

// AuditChecker reports how many audit rows reference a template name.
// Deleting a template with history requires an explicit force.
type AuditChecker interface {
	CountByTemplateName(name string) (int64, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo    RepositoryAPI
	grants  GrantAPI
	audit   AuditChecker
	catalog *permission.Catalog
	bus     EventPublisher
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, grants GrantAPI, audit AuditChecker, catalog *permission.Catalog, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		grants:  grants,
		audit:   audit,
		catalog: catalog,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateTemplateDTO, createdBy string) (*Template, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.validatePermissions(dto.Permissions); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check template name", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("a template with this name already exists", internal.ErrCodeValidationFailed)
	}

	row := &permissionDatamodel.PermissionTemplate{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Permissions: dto.Permissions,
		IsActive:    true,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to create template", err)
	}

	s.logger.Info("template created", "template_id", row.ID, "name", row.Name, "created_by", createdBy)
	return FromDataModel(row), nil
}

// Update edits the template definition only. Grants already stamped with
// the old definition are left exactly as they were materialized.
func (s *Service) Update(ctx context.Context, id string, dto UpdateTemplateDTO) (*Template, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load template", err)
	}
	if row == nil {
		return nil, internal.ErrTemplateNotFound
	}

	if dto.Name != nil && *dto.Name != row.Name {
		other, err := s.repo.GetByName(*dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("failed to check template name", err)
		}
		if other != nil {
			return nil, internal.NewConflictError("a template with this name already exists", internal.ErrCodeValidationFailed)
		}
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.Permissions != nil {
		if err := s.validatePermissions(*dto.Permissions); err != nil {
			return nil, err
		}
		row.Permissions = *dto.Permissions
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(row); err != nil {
		return nil, internal.NewInternalError("failed to update template", err)
	}
	return FromDataModel(row), nil
}

// Delete removes the template definition. When audit history references
// the template name the delete is refused unless force is set; grants
// the template produced are never touched either way.
func (s *Service) Delete(ctx context.Context, id string, force bool, deletedBy string) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to load template", err)
	}
	if row == nil {
		return internal.ErrTemplateNotFound
	}

	if !force {
		refs, err := s.audit.CountByTemplateName(row.Name)
		if err != nil {
			return internal.NewInternalError("failed to check template references", err)
		}
		if refs > 0 {
			return internal.ErrTemplateReferenced
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete template", err)
	}

	if err := s.bus.PublishSync(ctx, events.NewTemplateDeletedEvent(row.Name, deletedBy, force)); err != nil {
		return err
	}
	s.logger.Info("template deleted", "template_id", id, "name", row.Name, "forced", force)
	return nil
}

func (s *Service) GetByID(id string) (*Template, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load template", err)
	}
	if row == nil {
		return nil, internal.ErrTemplateNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListAll() ([]*Template, error) {
	rows, err := s.repo.ListAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list templates", err)
	}
	return FromDataModels(rows), nil
}

// Apply materializes the template's permissions onto each target as
// individual grants stamped with the template name. Targets are
// processed independently: one bad target is reported as failed and the
// rest proceed. With overwrite set, active grants on the target that are
// not part of the template are revoked first.
func (s *Service) Apply(ctx context.Context, templateID string, dto ApplyTemplateDTO, appliedBy string) (*ApplicationReport, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(templateID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load template", err)
	}
	if row == nil {
		return nil, internal.ErrTemplateNotFound
	}
	tmpl := FromDataModel(row)
	if !tmpl.IsActive {
		return nil, internal.NewValidationError("template is inactive", internal.ErrCodeValidationFailed)
	}

	report := &ApplicationReport{
		TemplateID:   tmpl.ID,
		TemplateName: tmpl.Name,
		Overwrite:    dto.Overwrite,
		AppliedAt:    s.now(),
		Targets:      make([]TargetResult, 0, len(dto.Targets)),
	}

	for _, target := range dto.Targets {
		result := s.applyToTarget(ctx, tmpl, target, dto.Overwrite, appliedBy)
		switch result.Status {
		case TargetStatusApplied:
			report.AppliedCount++
		case TargetStatusSkipped:
			report.SkippedCount++
		default:
			report.FailedCount++
		}
		report.Targets = append(report.Targets, result)
	}

	if report.AppliedCount > 0 {
		if err := s.repo.IncrementUsage(tmpl.ID, report.AppliedCount); err != nil {
			s.logger.Error("failed to bump template usage count", "template_id", tmpl.ID, "error", err)
		}
	}

	s.logger.Info("template applied",
		"template_id", tmpl.ID,
		"name", tmpl.Name,
		"targets", len(dto.Targets),
		"applied", report.AppliedCount,
		"skipped", report.SkippedCount,
		"failed", report.FailedCount,
		"overwrite", dto.Overwrite)
	return report, nil
}

func (s *Service) applyToTarget(ctx context.Context, tmpl *Template, target ApplyTarget, overwrite bool, appliedBy string) TargetResult {
	result := TargetResult{
		EntityType: target.EntityType,
		EntityID:   target.EntityID,
		Status:     TargetStatusApplied,
	}

	scope, err := permission.ParseScope(target.EntityType)
	if err != nil {
		return failedTarget(result, err)
	}

	if overwrite {
		active, err := s.grants.ActiveGrantsFor(scope, target.EntityID, s.now())
		if err != nil {
			return failedTarget(result, err)
		}
		for _, g := range active {
			if tmpl.Contains(g.Permission) {
				continue
			}
			if err := s.grants.Revoke(ctx, g.ID, appliedBy); err != nil {
				return failedTarget(result, err)
			}
			result.Revoked = append(result.Revoked, g.Permission)
		}
	}

	for _, key := range tmpl.Permissions {
		_, existing, err := s.grants.Grant(ctx, scope, target.EntityID, key, appliedBy, grant.GrantOptions{
			TemplateName: tmpl.Name,
		})
		if err != nil {
			return failedTarget(result, err)
		}
		if existing {
			result.AlreadyPresent = append(result.AlreadyPresent, key)
		} else {
			result.Granted = append(result.Granted, key)
		}
	}

	// A target already holding every template permission with nothing
	// revoked is a no-op: no event, no usage bump.
	if len(result.Granted) == 0 && len(result.Revoked) == 0 {
		result.Status = TargetStatusSkipped
		return result
	}

	if err := s.bus.PublishSync(ctx, events.NewTemplateAppliedEvent(tmpl.Name, target.EntityType, target.EntityID, appliedBy, len(result.Granted), len(result.AlreadyPresent))); err != nil {
		return failedTarget(result, err)
	}
	return result
}

func failedTarget(result TargetResult, err error) TargetResult {
	result.Status = TargetStatusFailed
	result.Error = err.Error()
	return result
}

func (s *Service) validatePermissions(keys []string) error {
	for _, key := range keys {
		if !s.catalog.Contains(key) {
			return internal.NewValidationError("unknown permission in template: "+key, internal.ErrCodeInvalidPermission)
		}
	}
	return nil
}
