package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/lritter14/filing-rag/internal/llm"
)

// HealthHandler reports service liveness, and embedder reachability on
// request.
type HealthHandler struct {
	embedder llm.Embedder
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(embedder llm.Embedder) *HealthHandler {
	return &HealthHandler{embedder: embedder}
}

// HealthResponse reports component status.
type HealthResponse struct {
	Status   string `json:"status"`
	Embedder string `json:"embedder,omitempty"`
}

// ServeHTTP answers liveness checks. With ?deep=true it also probes the
// embedding service with a short single-item call.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}

	if r.URL.Query().Get("deep") == "true" && h.embedder != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if _, err := h.embedder.EmbedTexts(ctx, []string{"ping"}); err != nil {
			resp.Status = "degraded"
			resp.Embedder = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Embedder = "ok"
	}

	writeJSON(w, http.StatusOK, resp)
}
