package grant

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/docportal-access/internal"
	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
	"github.com/frahmantamala/docportal-access/internal/core/events"
	"github.com/frahmantamala/docportal-access/internal/permission"
)

type RepositoryAPI interface {
	// CreateUnlessActive inserts the row unless an active grant already
	// exists for the same (entity_type, entity_id, permission) tuple, in
	// which case it returns the existing row. Implementations must
	// serialize concurrent calls per tuple.
	CreateUnlessActive(row *permissionDatamodel.Grant, asOf time.Time) (*permissionDatamodel.Grant, bool, error)
	GetByID(id string) (*permissionDatamodel.Grant, error)
	// Revoke stamps revoked_at/revoked_by on a not-yet-revoked row and
	// reports whether a row was updated.
	Revoke(id, revokedBy string, revokedAt time.Time) (bool, error)
	ListForEntity(entityType, entityID string) ([]*permissionDatamodel.Grant, error)
	ListAll() ([]*permissionDatamodel.Grant, error)
	ListActive(asOf time.Time) ([]*permissionDatamodel.Grant, error)
	ActiveForEntity(entityType, entityID string, asOf time.Time) ([]*permissionDatamodel.Grant, error)
	ActivePermissions(entityType, entityID string, asOf time.Time) ([]string, error)
	EntitiesWithActivePermission(entityType, permissionKey string, asOf time.Time) ([]string, error)
	EntityExists(entityType, entityID string) (bool, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

// GrantOptions carries the optional attributes of a grant.
type GrantOptions struct {
	ExpiresAt    *time.Time
	TemplateName string
	Notes        string
}

type Service struct {
	repo    RepositoryAPI
	catalog *permission.Catalog
	bus     EventPublisher
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, catalog *permission.Catalog, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
	}
}

// Grant creates an active grant for the tuple, or returns the existing
// active grant as a no-op. The permission key is validated against the
// injected catalog and the target entity must exist.
func (s *Service) Grant(ctx context.Context, scope permission.Scope, entityID, permissionKey, grantedBy string, opts GrantOptions) (*Grant, bool, error) {
	if !s.catalog.Contains(permissionKey) {
		s.logger.Warn("rejected grant for unknown permission", "permission", permissionKey, "entity_type", scope, "entity_id", entityID)
		return nil, false, internal.ErrInvalidPermission
	}

	exists, err := s.repo.EntityExists(scope.String(), entityID)
	if err != nil {
		return nil, false, internal.NewInternalError("failed to look up grant target", err)
	}
	if !exists {
		return nil, false, s.notFoundForScope(scope)
	}

	row := &permissionDatamodel.Grant{
		ID:           uuid.NewString(),
		EntityType:   scope.String(),
		EntityID:     entityID,
		Permission:   permissionKey,
		GrantedBy:    grantedBy,
		GrantedAt:    s.now(),
		ExpiresAt:    opts.ExpiresAt,
		TemplateName: opts.TemplateName,
		Notes:        opts.Notes,
	}

	stored, created, err := s.repo.CreateUnlessActive(row, s.now())
	if err != nil {
		return nil, false, internal.NewInternalError("failed to store grant", err)
	}

	if created {
		if err := s.bus.PublishSync(ctx, events.NewPermissionGrantedEvent(stored.ID, stored.EntityType, stored.EntityID, stored.Permission, grantedBy)); err != nil {
			return nil, false, err
		}
		s.logger.Info("permission granted",
			"grant_id", stored.ID,
			"entity_type", stored.EntityType,
			"entity_id", stored.EntityID,
			"permission", stored.Permission,
			"granted_by", grantedBy)
	}

	return FromDataModel(stored), !created, nil
}

func (s *Service) GrantFromDTO(ctx context.Context, dto GrantPermissionDTO, grantedBy string) (*Grant, bool, error) {
	if err := dto.Validate(); err != nil {
		return nil, false, err
	}
	scope, err := permission.ParseScope(dto.EntityType)
	if err != nil {
		return nil, false, err
	}
	return s.Grant(ctx, scope, dto.EntityID, dto.Permission, grantedBy, GrantOptions{
		ExpiresAt: dto.ExpiresAt,
		Notes:     dto.Notes,
	})
}

// Revoke stamps the grant as revoked. Unknown ids and already-revoked
// grants both fail with NotFound: revocation is a deliberate audited act,
// not a state convergence.
func (s *Service) Revoke(ctx context.Context, grantID, actor string) error {
	row, err := s.repo.GetByID(grantID)
	if err != nil {
		return internal.NewInternalError("failed to load grant", err)
	}
	if row == nil {
		return internal.ErrGrantNotFound
	}
	if row.RevokedAt != nil {
		return internal.ErrGrantRevoked
	}

	updated, err := s.repo.Revoke(grantID, actor, s.now())
	if err != nil {
		return internal.NewInternalError("failed to revoke grant", err)
	}
	if !updated {
		// Lost the race to a concurrent revoke.
		return internal.ErrGrantRevoked
	}

	if err := s.bus.PublishSync(ctx, events.NewPermissionRevokedEvent(row.ID, row.EntityType, row.EntityID, row.Permission, actor)); err != nil {
		return err
	}

	s.logger.Info("permission revoked",
		"grant_id", grantID,
		"entity_type", row.EntityType,
		"entity_id", row.EntityID,
		"permission", row.Permission,
		"revoked_by", actor)
	return nil
}

// ListForEntity returns every grant for the entity, most recent first,
// including revoked rows for audit display.
func (s *Service) ListForEntity(scope permission.Scope, entityID string) ([]*Grant, error) {
	rows, err := s.repo.ListForEntity(scope.String(), entityID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list grants", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) ListAll() ([]*Grant, error) {
	rows, err := s.repo.ListAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list grants", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) ListActive(asOf time.Time) ([]*Grant, error) {
	rows, err := s.repo.ListActive(asOf)
	if err != nil {
		return nil, internal.NewInternalError("failed to list active grants", err)
	}
	return FromDataModels(rows), nil
}

// ActiveGrantsFor returns the active grants for one entity.
func (s *Service) ActiveGrantsFor(scope permission.Scope, entityID string, asOf time.Time) ([]*Grant, error) {
	rows, err := s.repo.ActiveForEntity(scope.String(), entityID, asOf)
	if err != nil {
		return nil, internal.NewInternalError("failed to list active grants", err)
	}
	return FromDataModels(rows), nil
}

// ActivePermissions is the resolver's read primitive: the set of
// permission kinds the entity actively holds.
func (s *Service) ActivePermissions(scope permission.Scope, entityID string, asOf time.Time) ([]string, error) {
	return s.repo.ActivePermissions(scope.String(), entityID, asOf)
}

func (s *Service) EntitiesWithActivePermission(scope permission.Scope, permissionKey string, asOf time.Time) ([]string, error) {
	return s.repo.EntitiesWithActivePermission(scope.String(), permissionKey, asOf)
}

func (s *Service) EntityExists(scope permission.Scope, entityID string) (bool, error) {
	return s.repo.EntityExists(scope.String(), entityID)
}

func (s *Service) notFoundForScope(scope permission.Scope) *internal.AppError {
	switch scope {
	case permission.ScopeUser:
		return internal.ErrUserNotFound
	case permission.ScopeDepartment:
		return internal.ErrDepartmentNotFound
	case permission.ScopeCategory:
		return internal.ErrCategoryNotFound
	default:
		return internal.NewNotFoundError("grant target not found", internal.ErrCodeValidationFailed)
	}
}
