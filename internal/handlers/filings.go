package handlers

import (
	"net/http"
	"strconv"

	"github.com/lritter14/filing-rag/internal/contextutil"
	"github.com/lritter14/filing-rag/internal/storage"
	"github.com/lritter14/filing-rag/internal/store"
)

// FilingsHandler lists known filings and their pipeline artifact status.
type FilingsHandler struct {
	store *store.FileStore
}

// NewFilingsHandler creates a new FilingsHandler.
func NewFilingsHandler(fs *store.FileStore) *FilingsHandler {
	return &FilingsHandler{store: fs}
}

// FilingsResponse holds every filing found under the data root.
type FilingsResponse struct {
	Filings []store.FilingStatus `json:"filings"`
}

func (h *FilingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filings, err := h.store.ListFilings()
	if err != nil {
		writePipelineError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, FilingsResponse{Filings: filings})
}

// RunsHandler exposes the embedding run log.
type RunsHandler struct {
	runs storage.RunStore
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(runs storage.RunStore) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// RunsResponse holds run log entries, newest first.
type RunsResponse struct {
	Runs []*storage.RunRecord `json:"runs"`
}

func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	q := r.URL.Query()
	ticker, form, filed := q.Get("ticker"), q.Get("form"), q.Get("filed")

	var (
		runs []*storage.RunRecord
		err  error
	)
	if ticker != "" && form != "" && filed != "" {
		runs, err = h.runs.ListByFiling(ctx, ticker, form, filed, limit)
	} else {
		runs, err = h.runs.ListRecent(ctx, limit)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	if runs == nil {
		runs = []*storage.RunRecord{}
	}
	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}
