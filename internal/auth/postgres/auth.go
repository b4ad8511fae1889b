package postgres

import (
	"database/sql"

	"gorm.io/gorm"

	"github.com/frahmantamala/docportal-access/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.UserRepository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(email string) (*auth.Credentials, error) {
	query := `SELECT id, email, role, password_hash FROM users WHERE email = ? AND is_active = true`
	return r.scanCredentials(query, email)
}

func (r *Repository) GetCredentialsByID(userID string) (*auth.Credentials, error) {
	query := `SELECT id, email, role, password_hash FROM users WHERE id = ? AND is_active = true`
	return r.scanCredentials(query, userID)
}

func (r *Repository) scanCredentials(query string, arg interface{}) (*auth.Credentials, error) {
	var creds auth.Credentials
	row := r.db.Raw(query, arg).Row()
	if err := row.Scan(&creds.UserID, &creds.Email, &creds.Role, &creds.PasswordHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}
