package api

import "net/http"

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Players int    `json:"players"`
}

// HandleHealth handles GET /healthz. The process is healthy as soon as it
// serves; Ready turns true once a run has been published.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := h.deps.Metadata(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Ready:   err == nil,
		Players: h.deps.Count(r.Context()),
	})
}
