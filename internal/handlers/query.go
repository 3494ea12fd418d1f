package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lritter14/filing-rag/internal/filing"
	"github.com/lritter14/filing-rag/internal/retrieval"
)

// QueryHandler answers similarity queries against a filing's embeddings.
type QueryHandler struct {
	engine *retrieval.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine *retrieval.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// QueryRequest identifies the filing and carries the query text.
type QueryRequest struct {
	Ticker string `json:"ticker"`
	Form   string `json:"form"`
	Filed  string `json:"filed"`
	Query  string `json:"query"`
	TopK   int    `json:"topK,omitempty"`
}

// QueryResponse holds the ranked results.
type QueryResponse struct {
	Results []retrieval.Result `json:"results"`
}

func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key := filing.NewKey(req.Ticker, req.Form, req.Filed)
	if err := key.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "missing required field: query")
		return
	}

	results, err := h.engine.Search(ctx, key, req.Query, req.TopK)
	if err != nil {
		writePipelineError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Results: results})
}
