package postgres

import (
	"gorm.io/gorm"

	departmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/department"
	"github.com/frahmantamala/docportal-access/internal/department"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetByID(id string) (*departmentDatamodel.Department, error) {
	var row departmentDatamodel.Department
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *DepartmentRepository) ListActive() ([]*departmentDatamodel.Department, error) {
	var rows []*departmentDatamodel.Department
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&rows).Error
	return rows, err
}
