package handlers

import (
	"context"
	"net/http"

	"github.com/ludoteca/server/internal/catalog"
)

// RefreshRequester hands a catalog refresh off to a queue.
type RefreshRequester interface {
	RequestCatalogRefresh(ctx context.Context) error
}

// CatalogHandler handles catalog import endpoints
type CatalogHandler struct {
	job       *catalog.Job
	requester RefreshRequester
}

// NewCatalogHandler creates a new catalog handler. With a requester the
// refresh is queued; without one the import runs inline.
func NewCatalogHandler(job *catalog.Job, requester RefreshRequester) *CatalogHandler {
	return &CatalogHandler{job: job, requester: requester}
}

// Refresh triggers a catalog import
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.job == nil {
		jsonError(w, http.StatusServiceUnavailable, "catalog import is not configured")
		return
	}

	if h.requester != nil {
		if err := h.requester.RequestCatalogRefresh(r.Context()); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to queue catalog refresh")
			return
		}
		jsonResponse(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	summary, err := h.job.Run(r.Context())
	if err != nil {
		jsonError(w, http.StatusBadGateway, "catalog import failed")
		return
	}

	jsonResponse(w, http.StatusOK, summary)
}
