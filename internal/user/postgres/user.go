package postgres

import (
	"gorm.io/gorm"

	userDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/user"
	"github.com/frahmantamala/docportal-access/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) ListActive() ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC").
		Find(&rows).Error
	return rows, err
}
