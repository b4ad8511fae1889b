package template

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateTemplateDTO, createdBy string) (*Template, error)
	Update(ctx context.Context, id string, dto UpdateTemplateDTO) (*Template, error)
	Delete(ctx context.Context, id string, force bool, deletedBy string) error
	GetByID(id string) (*Template, error)
	ListAll() ([]*Template, error)
	Apply(ctx context.Context, templateID string, dto ApplyTemplateDTO, appliedBy string) (*ApplicationReport, error)
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

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var dto CreateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	createdBy := internal.UserIDFromContext(r.Context())
	created, err := h.Service.Create(r.Context(), dto, createdBy)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, TemplateResponse{Template: created})
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var dto UpdateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TemplateResponse{Template: updated})
}

// DeleteTemplate removes a template definition. Pass ?force=true to
// delete a template that audit history still references.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	deletedBy := internal.UserIDFromContext(r.Context())

	templateID := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), templateID, force, deletedBy); err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": templateID})
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.Service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TemplateResponse{Template: tmpl})
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Service.ListAll()
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TemplatesResponse{Templates: templates, Total: len(templates)})
}

// ApplyTemplate runs the template against a batch of targets and
// returns the per-target report regardless of individual failures.
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var dto ApplyTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appliedBy := internal.UserIDFromContext(r.Context())
	report, err := h.Service.Apply(r.Context(), chi.URLParam(r, "id"), dto, appliedBy)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
