package store

import "github.com/lritter14/filing-rag/internal/chunker"

// EmbeddingRecord pairs a chunk's vector with the exact text it was computed
// from. The text is byte-identical to the source chunk; that identity is what
// resume logic counts on. Records are appended, never mutated or reordered.
type EmbeddingRecord struct {
	Embedding []float32        `json:"embedding"`
	Text      string           `json:"text"`
	Metadata  chunker.Metadata `json:"metadata"`
}

// SectionSummary is one section entry in sections.json: the detected span
// plus its character count and how many chunks it produced.
type SectionSummary struct {
	Name      string `json:"name"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	CharStart int    `json:"charStart"`
	CharEnd   int    `json:"charEnd"`
	CharCount int    `json:"charCount"`
	Chunks    int    `json:"chunks"`
	Preview   string `json:"preview"`
}

// SectionsDoc is the persisted result of one sectioning run for a filing.
type SectionsDoc struct {
	Ticker   string           `json:"ticker"`
	Form     string           `json:"form"`
	Filed    string           `json:"filed"`
	Sections []SectionSummary `json:"sections"`
}

// FilingStatus reports which pipeline artifacts exist for one filing.
type FilingStatus struct {
	Ticker     string `json:"ticker"`
	Form       string `json:"form"`
	Filed      string `json:"filed"`
	HasText    bool   `json:"hasText"`
	Sections   int    `json:"sections"`
	Chunks     int    `json:"chunks"`
	Embeddings int    `json:"embeddings"`
}
