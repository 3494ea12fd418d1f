package storage

import "time"

// RunRecord is one row in the embedding run log: a single embedBatch call
// against one filing.
type RunRecord struct {
	ID            string    `json:"id"` // UUID
	Ticker        string    `json:"ticker"`
	Form          string    `json:"form"`
	Filed         string    `json:"filed"`
	SectionFilter string    `json:"sectionFilter"`
	StartIndex    int       `json:"start"`
	Embedded      int       `json:"embedded"`
	Total         int       `json:"total"`
	DurationMs    int64     `json:"durationMs"`
	CreatedAt     time.Time `json:"createdAt"`
}
