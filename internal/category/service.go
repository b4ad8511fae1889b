package category

import (
	"log/slog"

	"github.com/frahmantamala/docportal-access/internal"
	categoryDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetByID(id string) (*categoryDatamodel.DocumentCategory, error)
	ListActive() ([]*categoryDatamodel.DocumentCategory, error)
	ListActiveIDs() ([]string, error)
	ListPublicIDs() ([]string, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(id string) (*Category, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load category", err)
	}
	if row == nil {
		return nil, internal.ErrCategoryNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListAll() ([]*Category, error) {
	rows, err := s.repo.ListActive()
	if err != nil {
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	return FromDataModels(rows), nil
}

// ListIDs serves the resolver's full-catalog path for admins and
// categories.view_all holders.
func (s *Service) ListIDs() ([]string, error) {
	return s.repo.ListActiveIDs()
}

// ListPublicIDs serves the resolver's baseline visibility set.
func (s *Service) ListPublicIDs() ([]string, error) {
	return s.repo.ListPublicIDs()
}
