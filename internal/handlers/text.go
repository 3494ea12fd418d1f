package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lritter14/filing-rag/internal/contextutil"
	"github.com/lritter14/filing-rag/internal/filing"
	"github.com/lritter14/filing-rag/internal/store"
)

// TextHandler receives the plain document text for a filing from the
// upstream scraper and stores it as the pipeline's input artifact.
type TextHandler struct {
	store *store.FileStore
}

// NewTextHandler creates a new TextHandler.
func NewTextHandler(fs *store.FileStore) *TextHandler {
	return &TextHandler{store: fs}
}

// TextRequest carries a filing's full plain text.
type TextRequest struct {
	Ticker string `json:"ticker"`
	Form   string `json:"form"`
	Filed  string `json:"filed"`
	Text   string `json:"text"`
}

// TextResponse acknowledges the stored text.
type TextResponse struct {
	Success bool   `json:"success"`
	Ticker  string `json:"ticker"`
	Form    string `json:"form"`
	Filed   string `json:"filed"`
	Bytes   int    `json:"bytes"`
}

func (h *TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key := filing.NewKey(req.Ticker, req.Form, req.Filed)
	if err := key.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "missing required field: text")
		return
	}

	lock := h.store.Lock(key)
	lock.Lock()
	defer lock.Unlock()

	if err := h.store.WriteText(key, req.Text); err != nil {
		writePipelineError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "filing text stored", "filing", key.String(), "bytes", len(req.Text))
	writeJSON(w, http.StatusOK, TextResponse{
		Success: true,
		Ticker:  key.Ticker,
		Form:    key.Form,
		Filed:   key.Filed,
		Bytes:   len(req.Text),
	})
}
