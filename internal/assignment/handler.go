package assignment

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateAssignmentDTO) (*Assignment, error)
	Update(ctx context.Context, id string, dto UpdateAssignmentDTO) (*Assignment, error)
	End(ctx context.Context, id, actor string) (*Assignment, error)
	GetByID(id string) (*Assignment, error)
	ListByEmployee(employeeID string) ([]*Assignment, error)
	ListByDepartment(departmentID string) ([]*Assignment, error)
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

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var dto CreateAssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, AssignmentResponse{Assignment: created})
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var dto UpdateAssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AssignmentResponse{Assignment: updated})
}

func (h *Handler) EndAssignment(w http.ResponseWriter, r *http.Request) {
	actor := internal.UserIDFromContext(r.Context())

	ended, err := h.Service.End(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AssignmentResponse{Assignment: ended})
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AssignmentResponse{Assignment: found})
}

// ListAssignments filters by department or employee query parameters.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	departmentID := r.URL.Query().Get("department")
	employeeID := r.URL.Query().Get("employee")

	var (
		assignments []*Assignment
		err         error
	)
	switch {
	case departmentID != "":
		assignments, err = h.Service.ListByDepartment(departmentID)
	case employeeID != "":
		assignments, err = h.Service.ListByEmployee(employeeID)
	default:
		h.WriteError(w, http.StatusBadRequest, "department or employee query parameter is required")
		return
	}
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AssignmentsResponse{Assignments: assignments, Total: len(assignments)})
}
