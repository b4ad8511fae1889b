package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	categoryDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/category"
	departmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/department"
	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
	userDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/user"
	"github.com/frahmantamala/docportal-access/internal/grant"
)

type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) grant.RepositoryAPI {
	return &GrantRepository{db: db}
}

const uniqueViolationCode = "23505"

// CreateUnlessActive enforces at most one active grant per
// (entity_type, entity_id, permission) tuple. When an active row exists,
// writers serialize on its row lock. First-time inserts have no row to
// lock; they race on the uniq_grants_active_tuple partial unique index
// instead, and the loser retries to pick up the winner as the existing
// grant.
func (r *GrantRepository) CreateUnlessActive(row *permissionDatamodel.Grant, asOf time.Time) (*permissionDatamodel.Grant, bool, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		stored, created, err := r.createUnlessActiveOnce(row, asOf)
		if err == nil {
			return stored, created, nil
		}
		if !isUniqueViolation(err) {
			return nil, false, err
		}
		// Lost the insert race; the winner is committed by now, so the
		// next attempt returns it as the existing grant.
		lastErr = err
	}
	return nil, false, lastErr
}

func (r *GrantRepository) createUnlessActiveOnce(row *permissionDatamodel.Grant, asOf time.Time) (*permissionDatamodel.Grant, bool, error) {
	var stored *permissionDatamodel.Grant
	created := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// uniq_grants_active_tuple covers rows with revoked_at IS NULL,
		// so expired rows must be retired before the tuple can be
		// granted again.
		err := tx.Model(&permissionDatamodel.Grant{}).
			Where("entity_type = ? AND entity_id = ? AND permission = ?", row.EntityType, row.EntityID, row.Permission).
			Where("revoked_at IS NULL").
			Where("expires_at IS NOT NULL AND expires_at <= ?", asOf).
			Update("revoked_at", gorm.Expr("expires_at")).Error
		if err != nil {
			return err
		}

		var existing permissionDatamodel.Grant
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("entity_type = ? AND entity_id = ? AND permission = ?", row.EntityType, row.EntityID, row.Permission).
			Where("revoked_at IS NULL").
			Where("expires_at IS NULL OR expires_at > ?", asOf).
			First(&existing).Error
		if err == nil {
			stored = &existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(row).Error; err != nil {
			return err
		}
		stored = row
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *GrantRepository) GetByID(id string) (*permissionDatamodel.Grant, error) {
	var row permissionDatamodel.Grant
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Revoke only touches rows that are still unrevoked, so concurrent
// revokes resolve to exactly one winner.
func (r *GrantRepository) Revoke(id, revokedBy string, revokedAt time.Time) (bool, error) {
	result := r.db.Model(&permissionDatamodel.Grant{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]interface{}{
			"revoked_at": revokedAt,
			"revoked_by": revokedBy,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *GrantRepository) ListForEntity(entityType, entityID string) ([]*permissionDatamodel.Grant, error) {
	var rows []*permissionDatamodel.Grant
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("granted_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *GrantRepository) ListAll() ([]*permissionDatamodel.Grant, error) {
	var rows []*permissionDatamodel.Grant
	err := r.db.Order("granted_at DESC").Find(&rows).Error
	return rows, err
}

func (r *GrantRepository) ListActive(asOf time.Time) ([]*permissionDatamodel.Grant, error) {
	var rows []*permissionDatamodel.Grant
	err := r.activeScope(asOf).Order("granted_at DESC").Find(&rows).Error
	return rows, err
}

func (r *GrantRepository) ActiveForEntity(entityType, entityID string, asOf time.Time) ([]*permissionDatamodel.Grant, error) {
	var rows []*permissionDatamodel.Grant
	err := r.activeScope(asOf).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("granted_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *GrantRepository) ActivePermissions(entityType, entityID string, asOf time.Time) ([]string, error) {
	var permissions []string
	err := r.activeScope(asOf).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Distinct().
		Pluck("permission", &permissions).Error
	return permissions, err
}

func (r *GrantRepository) EntitiesWithActivePermission(entityType, permissionKey string, asOf time.Time) ([]string, error) {
	var entityIDs []string
	err := r.activeScope(asOf).
		Where("entity_type = ? AND permission = ?", entityType, permissionKey).
		Distinct().
		Pluck("entity_id", &entityIDs).Error
	return entityIDs, err
}

// EntityExists resolves the grant target against the table its scope
// refers to.
func (r *GrantRepository) EntityExists(entityType, entityID string) (bool, error) {
	var count int64
	var err error
	switch entityType {
	case "user":
		err = r.db.Model(&userDatamodel.User{}).Where("id = ?", entityID).Count(&count).Error
	case "department":
		err = r.db.Model(&departmentDatamodel.Department{}).Where("id = ?", entityID).Count(&count).Error
	case "category":
		err = r.db.Model(&categoryDatamodel.DocumentCategory{}).Where("id = ?", entityID).Count(&count).Error
	default:
		return false, nil
	}
	return count > 0, err
}

func (r *GrantRepository) activeScope(asOf time.Time) *gorm.DB {
	return r.db.Model(&permissionDatamodel.Grant{}).
		Where("revoked_at IS NULL").
		Where("expires_at IS NULL OR expires_at > ?", asOf)
}
