package user

import (
	"log/slog"

	"github.com/frahmantamala/docportal-access/internal"
	userDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/user"
	"github.com/frahmantamala/docportal-access/internal/permission"
)

type RepositoryAPI interface {
	GetByID(id string) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	ListActive() ([]*userDatamodel.User, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(id string) (*User, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByEmail(email string) (*User, error) {
	row, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

// GetIdentity serves the resolver's view of a user. Inactive users
// resolve like any other; deactivation is an authentication concern.
func (s *Service) GetIdentity(userID string) (*permission.UserIdentity, error) {
	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return &permission.UserIdentity{
		ID:       row.ID,
		Role:     row.Role,
		IsActive: row.IsActive,
	}, nil
}

// AvailableEmployees lists active users that can receive a department
// assignment.
func (s *Service) AvailableEmployees() ([]*User, error) {
	rows, err := s.repo.ListActive()
	if err != nil {
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return FromDataModels(rows), nil
}
