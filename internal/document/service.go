package document

import (
	"log/slog"

	"github.com/frahmantamala/docportal-access/internal"
	documentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/document"
	"github.com/frahmantamala/docportal-access/internal/permission"
)

type RepositoryAPI interface {
	GetByID(id string) (*documentDatamodel.Document, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(id string) (*Document, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load document", err)
	}
	if row == nil {
		return nil, internal.ErrDocumentNotFound
	}
	return FromDataModel(row), nil
}

// GetIdentity serves the resolver's view of a document.
func (s *Service) GetIdentity(documentID string) (*permission.DocumentIdentity, error) {
	row, err := s.repo.GetByID(documentID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load document", err)
	}
	if row == nil {
		return nil, internal.ErrDocumentNotFound
	}
	return &permission.DocumentIdentity{
		ID:         row.ID,
		CategoryID: row.CategoryID,
	}, nil
}
