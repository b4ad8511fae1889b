package grant

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/permission"
	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	GrantFromDTO(ctx context.Context, dto GrantPermissionDTO, grantedBy string) (*Grant, bool, error)
	Revoke(ctx context.Context, grantID, actor string) error
	ListForEntity(scope permission.Scope, entityID string) ([]*Grant, error)
	ListAll() ([]*Grant, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GrantPermission creates a grant; a duplicate active grant returns the
// existing row with 200 instead of 201.
func (h *Handler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	var dto GrantPermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grantedBy := internal.UserIDFromContext(r.Context())
	created, existing, err := h.Service.GrantFromDTO(r.Context(), dto, grantedBy)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	status := http.StatusCreated
	if existing {
		status = http.StatusOK
	}
	h.WriteJSON(w, status, GrantResponse{Grant: created, Existing: existing})
}

// RevokePermission revokes a grant by id.
func (h *Handler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	grantID := chi.URLParam(r, "id")
	actor := internal.UserIDFromContext(r.Context())

	if err := h.Service.Revoke(r.Context(), grantID, actor); err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked", "id": grantID})
}

// GetEntityPermissions lists all grants for one entity, newest first.
func (h *Handler) GetEntityPermissions(w http.ResponseWriter, r *http.Request) {
	scope, err := permission.ParseScope(chi.URLParam(r, "entityType"))
	if err != nil {
		h.HandleError(w, err)
		return
	}
	entityID := chi.URLParam(r, "entityID")

	grants, err := h.Service.ListForEntity(scope, entityID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantsResponse{Grants: grants, Total: len(grants)})
}

// GetAllPermissions lists every grant for administrative review.
func (h *Handler) GetAllPermissions(w http.ResponseWriter, r *http.Request) {
	grants, err := h.Service.ListAll()
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantsResponse{Grants: grants, Total: len(grants)})
}
