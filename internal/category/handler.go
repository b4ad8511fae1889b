package category

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	GetByID(id string) (*Category, error)
	ListAll() ([]*Category, error)
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

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
	Total      int         `json:"total"`
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListAll()
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Categories: categories, Total: len(categories)})
}
