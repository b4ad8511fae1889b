package postgres

import (
	"gorm.io/gorm"

	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
	"github.com/frahmantamala/docportal-access/internal/template"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) template.RepositoryAPI {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(row *permissionDatamodel.PermissionTemplate) error {
	return r.db.Create(row).Error
}

func (r *TemplateRepository) GetByID(id string) (*permissionDatamodel.PermissionTemplate, error) {
	var row permissionDatamodel.PermissionTemplate
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *TemplateRepository) GetByName(name string) (*permissionDatamodel.PermissionTemplate, error) {
	var row permissionDatamodel.PermissionTemplate
	err := r.db.Where("name = ?", name).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *TemplateRepository) Update(row *permissionDatamodel.PermissionTemplate) error {
	return r.db.Save(row).Error
}

func (r *TemplateRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&permissionDatamodel.PermissionTemplate{}).Error
}

func (r *TemplateRepository) ListAll() ([]*permissionDatamodel.PermissionTemplate, error) {
	var rows []*permissionDatamodel.PermissionTemplate
	err := r.db.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *TemplateRepository) IncrementUsage(id string, delta int) error {
	return r.db.Model(&permissionDatamodel.PermissionTemplate{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", delta)).Error
}
