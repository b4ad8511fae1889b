package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/docportal-access/internal/audit"
	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
)

const defaultListLimit = 200

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(row *permissionDatamodel.AuditLog) error {
	return r.db.Create(row).Error
}

func (r *AuditRepository) List(filter audit.Filter) ([]*permissionDatamodel.AuditLog, error) {
	query := r.db.Model(&permissionDatamodel.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.PerformedBy != "" {
		query = query.Where("performed_by = ?", filter.PerformedBy)
	}
	if filter.TemplateName != "" {
		query = query.Where("template_name = ?", filter.TemplateName)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows []*permissionDatamodel.AuditLog
	err := query.Order("performed_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *AuditRepository) CountByTemplateName(name string) (int64, error) {
	var count int64
	err := r.db.Model(&permissionDatamodel.AuditLog{}).
		Where("template_name = ?", name).
		Count(&count).Error
	return count, err
}
