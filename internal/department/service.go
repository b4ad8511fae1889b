package department

import (
	"log/slog"

	"github.com/frahmantamala/docportal-access/internal"
	departmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	GetByID(id string) (*departmentDatamodel.Department, error)
	ListActive() ([]*departmentDatamodel.Department, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(id string) (*Department, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListAll() ([]*Department, error) {
	rows, err := s.repo.ListActive()
	if err != nil {
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return FromDataModels(rows), nil
}
