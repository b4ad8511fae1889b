package document

import (
	"time"

	documentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/document"
)

// Document carries only the identity attributes permission resolution
// needs; storage and content live outside this service.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CategoryID string    `json:"category_id"`
	OwnedBy    string    `json:"owned_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromDataModel(row *documentDatamodel.Document) *Document {
	return &Document{
		ID:         row.ID,
		Title:      row.Title,
		CategoryID: row.CategoryID,
		OwnedBy:    row.OwnedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
