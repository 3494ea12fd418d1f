package chunker

import (
	"strings"

	"github.com/lritter14/filing-rag/internal/filing"
	"github.com/lritter14/filing-rag/internal/sections"
)

const (
	// DefaultChunkSize is the window length in characters.
	DefaultChunkSize = 1000
	// DefaultOverlap is how many trailing characters each window shares with
	// the next one.
	DefaultOverlap = 200
	// minChunkLength is the minimum trimmed text length; shorter windows are
	// discarded.
	minChunkLength = 100
)

// Metadata ties a chunk back to its filing, section, and absolute character
// span within the document.
type Metadata struct {
	Ticker    string `json:"ticker"`
	Form      string `json:"form"`
	Filed     string `json:"filed"`
	Section   string `json:"section"`
	CharStart int    `json:"charStart"`
	CharEnd   int    `json:"charEnd"`
}

// Chunk is a fixed-size overlapping text window within a section, the unit
// of retrieval.
type Chunk struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Split walks a window of chunkSize characters across each section in order,
// advancing by chunkSize-overlap. Window text is trimmed and windows whose
// trimmed length is at or below the minimum are dropped. The final window of
// a section may be shorter; chunks never cross a section boundary.
// Requires chunkSize > overlap >= 0.
func Split(key filing.Key, text string, secs []sections.Section, chunkSize, overlap int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
		// The default can still collide with a small chunkSize.
		if overlap >= chunkSize {
			overlap = 0
		}
	}
	step := chunkSize - overlap

	chunks := []Chunk{}
	for _, sec := range secs {
		body := text[sec.CharStart:sec.CharEnd]
		for start := 0; start < len(body); start += step {
			end := start + chunkSize
			if end > len(body) {
				end = len(body)
			}
			window := strings.TrimSpace(body[start:end])
			if len(window) <= minChunkLength {
				continue
			}
			chunks = append(chunks, Chunk{
				Text: window,
				Metadata: Metadata{
					Ticker:    key.Ticker,
					Form:      key.Form,
					Filed:     key.Filed,
					Section:   sec.Name,
					CharStart: sec.CharStart + start,
					CharEnd:   sec.CharStart + end,
				},
			})
		}
	}
	return chunks
}
