package postgres

import (
	"gorm.io/gorm"

	documentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/document"
	"github.com/frahmantamala/docportal-access/internal/document"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.RepositoryAPI {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) GetByID(id string) (*documentDatamodel.Document, error) {
	var row documentDatamodel.Document
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
