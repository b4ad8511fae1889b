package report

import (
	"net/http"

	"github.com/frahmantamala/docportal-access/internal/transport"
)

type ServiceAPI interface {
	Generate() (*PermissionReport, error)
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

// GetPermissionReport computes and returns the audit view of all active
// grants.
func (h *Handler) GetPermissionReport(w http.ResponseWriter, r *http.Request) {
	generated, err := h.Service.Generate()
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, generated)
}
