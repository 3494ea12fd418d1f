package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lritter14/filing-rag/internal/contextutil"
	"github.com/lritter14/filing-rag/internal/embed"
	"github.com/lritter14/filing-rag/internal/store"
)

// ErrorResponse is the structured error body every stage returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes a response body with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// writePipelineError maps pipeline errors onto HTTP statuses: a missing
// upstream artifact is 404 (run the prior stage first), an embedding service
// failure is 502, anything else is a 500.
func writePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.WarnContext(ctx, "artifact not found", "error", err)
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, embed.ErrUpstream):
		logger.ErrorContext(ctx, "embedding service failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.ErrorContext(ctx, "pipeline stage failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
