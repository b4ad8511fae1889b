package user

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	GetByID(id string) (*User, error)
	AvailableEmployees() ([]*User, error)
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

type UsersResponse struct {
	Users []*User `json:"users"`
	Total int     `json:"total"`
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

// GetAvailableEmployees lists active users eligible for department
// assignment.
func (h *Handler) GetAvailableEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.AvailableEmployees()
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users, Total: len(users)})
}
