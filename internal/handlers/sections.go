package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lritter14/filing-rag/internal/chunker"
	"github.com/lritter14/filing-rag/internal/contextutil"
	"github.com/lritter14/filing-rag/internal/filing"
	"github.com/lritter14/filing-rag/internal/sections"
	"github.com/lritter14/filing-rag/internal/store"
)

// SectionsHandler runs the sectioning and chunking stages for a filing,
// overwriting any prior result.
type SectionsHandler struct {
	store        *store.FileStore
	chunkSize    int
	chunkOverlap int
}

// NewSectionsHandler creates a new SectionsHandler.
func NewSectionsHandler(fs *store.FileStore, chunkSize, chunkOverlap int) *SectionsHandler {
	return &SectionsHandler{
		store:        fs,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// SectionsRequest identifies the filing to section.
type SectionsRequest struct {
	Ticker string `json:"ticker"`
	Form   string `json:"form"`
	Filed  string `json:"filed"`
}

// SectionsResponse reports what the sectioning run produced.
type SectionsResponse struct {
	Success  bool   `json:"success"`
	Ticker   string `json:"ticker"`
	Form     string `json:"form"`
	Filed    string `json:"filed"`
	Sections int    `json:"sections"`
	Chunks   int    `json:"chunks"`
}

func (h *SectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key := filing.NewKey(req.Ticker, req.Form, req.Filed)
	if err := key.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Sectioning overwrites both artifacts; hold the filing lock so a racing
	// embed call cannot observe mismatched sections and chunks.
	lock := h.store.Lock(key)
	lock.Lock()
	defer lock.Unlock()

	text, err := h.store.ReadText(key)
	if err != nil {
		writePipelineError(ctx, w, err)
		return
	}

	secs := sections.Detect(text)
	chunks := chunker.Split(key, text, secs, h.chunkSize, h.chunkOverlap)

	chunksPerSection := make(map[string]int)
	for _, c := range chunks {
		chunksPerSection[c.Metadata.Section]++
	}

	doc := &store.SectionsDoc{
		Ticker:   key.Ticker,
		Form:     key.Form,
		Filed:    key.Filed,
		Sections: make([]store.SectionSummary, len(secs)),
	}
	counted := make(map[string]bool)
	for i, s := range secs {
		summary := store.SectionSummary{
			Name:      s.Name,
			StartLine: s.StartLine,
			EndLine:   s.EndLine,
			CharStart: s.CharStart,
			CharEnd:   s.CharEnd,
			CharCount: s.CharEnd - s.CharStart,
			Preview:   s.Preview,
		}
		// Duplicate section names share a chunk count; attribute it to the
		// first occurrence only so totals still add up.
		if !counted[s.Name] {
			summary.Chunks = chunksPerSection[s.Name]
			counted[s.Name] = true
		}
		doc.Sections[i] = summary
	}

	if err := h.store.WriteSections(key, doc); err != nil {
		writePipelineError(ctx, w, err)
		return
	}
	if err := h.store.WriteChunks(key, chunks); err != nil {
		writePipelineError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "filing sectioned",
		"filing", key.String(), "sections", len(secs), "chunks", len(chunks))

	writeJSON(w, http.StatusOK, SectionsResponse{
		Success:  true,
		Ticker:   key.Ticker,
		Form:     key.Form,
		Filed:    key.Filed,
		Sections: len(secs),
		Chunks:   len(chunks),
	})
}
