package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lritter14/filing-rag/internal/embed"
	"github.com/lritter14/filing-rag/internal/filing"
)

// EmbedHandler runs one bounded embedding batch for a filing.
type EmbedHandler struct {
	service *embed.Service
	// maxChunks is the configured per-call bound used when a request does
	// not set its own.
	maxChunks int
}

// NewEmbedHandler creates a new EmbedHandler.
func NewEmbedHandler(service *embed.Service, maxChunks int) *EmbedHandler {
	return &EmbedHandler{service: service, maxChunks: maxChunks}
}

// EmbedRequest identifies the filing and tunes the batch job. Resume defaults
// to true when omitted.
type EmbedRequest struct {
	Ticker    string `json:"ticker"`
	Form      string `json:"form"`
	Filed     string `json:"filed"`
	Batch     int    `json:"batch,omitempty"`
	Section   string `json:"section,omitempty"`
	MaxChunks int    `json:"maxChunks,omitempty"`
	Resume    *bool  `json:"resume,omitempty"`
}

// EmbedResponse reports the batch outcome. Message distinguishes "nothing to
// do" from genuine progress so clients can poll until done.
type EmbedResponse struct {
	Embedded int    `json:"embedded"`
	Total    int    `json:"total"`
	Start    int    `json:"start"`
	Message  string `json:"message,omitempty"`
}

func (h *EmbedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req EmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key := filing.NewKey(req.Ticker, req.Form, req.Filed)
	if err := key.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resume := true
	if req.Resume != nil {
		resume = *req.Resume
	}
	maxChunks := req.MaxChunks
	if maxChunks <= 0 {
		maxChunks = h.maxChunks
	}

	res, err := h.service.EmbedBatch(ctx, key, embed.Options{
		SectionFilter: req.Section,
		Resume:        resume,
		MaxChunks:     maxChunks,
		BatchSize:     req.Batch,
	})
	if err != nil {
		writePipelineError(ctx, w, err)
		return
	}

	resp := EmbedResponse{
		Embedded: res.Embedded,
		Total:    res.Total,
		Start:    res.Start,
	}
	if res.Done() {
		resp.Message = "Nothing to embed (already done)"
	}
	writeJSON(w, http.StatusOK, resp)
}
