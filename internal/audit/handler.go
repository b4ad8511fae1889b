package audit

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	List(filter Filter) ([]*Entry, error)
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

type EntriesResponse struct {
	Entries []*Entry `json:"entries"`
	Total   int      `json:"total"`
}

// GetAuditLog lists audit entries newest first, filtered by the query
// string.
func (h *Handler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	entries, err := h.Service.List(Filter{
		Action:       query.Get("action"),
		EntityType:   query.Get("entity_type"),
		EntityID:     query.Get("entity_id"),
		PerformedBy:  query.Get("performed_by"),
		TemplateName: query.Get("template_name"),
		Limit:        limit,
	})
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EntriesResponse{Entries: entries, Total: len(entries)})
}
