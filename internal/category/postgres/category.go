package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/docportal-access/internal/category"
	categoryDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/category"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(id string) (*categoryDatamodel.DocumentCategory, error) {
	var row categoryDatamodel.DocumentCategory
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CategoryRepository) ListActive() ([]*categoryDatamodel.DocumentCategory, error) {
	var rows []*categoryDatamodel.DocumentCategory
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *CategoryRepository) ListActiveIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&categoryDatamodel.DocumentCategory{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *CategoryRepository) ListPublicIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&categoryDatamodel.DocumentCategory{}).
		Where("is_active = ? AND is_public = ?", true, true).
		Pluck("id", &ids).Error
	return ids, err
}
