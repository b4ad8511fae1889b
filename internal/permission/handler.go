package permission

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ResolverAPI interface {
	Resolve(userID, documentID string) (EffectivePermissionSet, error)
	ResolveForUser(userID string) (EffectivePermissionSet, error)
	HasPermission(userID, documentID, permissionKey string) (bool, error)
	AccessibleCategories(userID string) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Catalog  *Catalog
	Resolver ResolverAPI
}

func NewHandler(baseHandler *transport.BaseHandler, catalog *Catalog, resolver ResolverAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Catalog:     catalog,
		Resolver:    resolver,
	}
}

// GetAvailablePermissions returns the configured permission catalog.
func (h *Handler) GetAvailablePermissions(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, AvailablePermissionsResponse{
		Permissions: h.Catalog.All(),
		Categories:  h.Catalog.Categories(),
	})
}

// GetMyPermissions resolves the calling user's permissions across the
// user and department scopes.
func (h *Handler) GetMyPermissions(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	set, err := h.Resolver.ResolveForUser(userID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{
		UserID:      userID,
		Permissions: set.Keys(),
	})
}

// GetDocumentPermissions resolves the calling user's effective permission
// set on a document.
func (h *Handler) GetDocumentPermissions(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	documentID := chi.URLParam(r, "id")

	set, err := h.Resolver.Resolve(userID, documentID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{
		UserID:      userID,
		DocumentID:  documentID,
		Permissions: set.Keys(),
	})
}

// CheckPermission answers "does the calling user hold permission P on
// document D".
func (h *Handler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	documentID := r.URL.Query().Get("document_id")
	permissionKey := r.URL.Query().Get("permission")
	if documentID == "" || permissionKey == "" {
		h.WriteError(w, http.StatusBadRequest, "document_id and permission are required")
		return
	}

	allowed, err := h.Resolver.HasPermission(userID, documentID, permissionKey)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PermissionCheckResponse{
		UserID:     userID,
		DocumentID: documentID,
		Permission: permissionKey,
		Allowed:    allowed,
	})
}

// GetAccessibleCategories lists the category ids the calling user can see.
func (h *Handler) GetAccessibleCategories(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	ids, err := h.Resolver.AccessibleCategories(userID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AccessibleCategoriesResponse{CategoryIDs: ids})
}
