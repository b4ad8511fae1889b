package department

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	GetByID(id string) (*Department, error)
	ListAll() ([]*Department, error)
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

type DepartmentsResponse struct {
	Departments []*Department `json:"departments"`
	Total       int           `json:"total"`
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListAll()
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{Departments: departments, Total: len(departments)})
}
