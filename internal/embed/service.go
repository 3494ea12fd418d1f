package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lritter14/filing-rag/internal/chunker"
	"github.com/lritter14/filing-rag/internal/contextutil"
	"github.com/lritter14/filing-rag/internal/filing"
	"github.com/lritter14/filing-rag/internal/llm"
	"github.com/lritter14/filing-rag/internal/storage"
	"github.com/lritter14/filing-rag/internal/store"
)

// ErrUpstream is returned when the embedding service fails or returns
// malformed output. No records from the failing sub-batch are persisted.
var ErrUpstream = errors.New("embedding service error")

const (
	// DefaultMaxChunks bounds one call's work unit.
	DefaultMaxChunks = 5
	// DefaultBatchSize is how many chunks go into one embedding call.
	DefaultBatchSize = 1
	// DefaultBatchDelay is the pause between sub-batches, a politeness toward
	// a local inference server rather than a correctness requirement.
	DefaultBatchDelay = 25 * time.Millisecond
)

// Options controls one EmbedBatch call.
type Options struct {
	// SectionFilter restricts candidates to chunks whose section name
	// contains this substring, case-insensitive. Empty means all chunks.
	SectionFilter string
	// Resume starts from the count of already-embedded records in the same
	// scope instead of from zero.
	Resume bool
	// MaxChunks bounds how many chunks this call embeds.
	MaxChunks int
	// BatchSize is how many chunks per embedding call.
	BatchSize int
}

// Result reports what one EmbedBatch call did.
type Result struct {
	Embedded int `json:"embedded"`
	Total    int `json:"total"`
	Start    int `json:"start"`
}

// Done reports whether the scope is fully embedded (nothing left to do).
func (r Result) Done() bool {
	return r.Embedded == 0
}

// Service runs resumable embedding batch jobs against the filing store.
type Service struct {
	store    *store.FileStore
	embedder llm.Embedder
	runs     storage.RunStore // optional; nil disables the run log
	delay    time.Duration
	logger   *slog.Logger
}

// NewService creates an embedding batch service. runs may be nil.
func NewService(fs *store.FileStore, embedder llm.Embedder, runs storage.RunStore, delay time.Duration) *Service {
	if delay <= 0 {
		delay = DefaultBatchDelay
	}
	return &Service{
		store:    fs,
		embedder: embedder,
		runs:     runs,
		delay:    delay,
		logger:   slog.Default(),
	}
}

// EmbedBatch embeds the next bounded slice of unprocessed chunks for a filing
// and appends the records to the on-disk store. Repeated calls with Resume
// pick up where the previous call left off; a call against a fully embedded
// scope returns Embedded=0 without touching the store. The per-filing lock is
// held for the whole read-modify-write cycle, so a concurrent retry cannot
// lose records or duplicate work.
//
// Each sub-batch is persisted as soon as it is embedded: a failure partway
// through aborts the rest of the call but keeps every sub-batch already
// written.
func (s *Service) EmbedBatch(ctx context.Context, key filing.Key, opts Options) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	began := time.Now()

	if opts.MaxChunks <= 0 {
		opts.MaxChunks = DefaultMaxChunks
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	lock := s.store.Lock(key)
	lock.Lock()
	defer lock.Unlock()

	allChunks, err := s.store.ReadChunks(key)
	if err != nil {
		return Result{}, err
	}

	candidates := filterBySection(allChunks, opts.SectionFilter)
	total := len(candidates)

	existing, err := s.store.ExistingEmbeddings(key)
	if err != nil {
		return Result{}, err
	}

	start := 0
	if opts.Resume {
		start = countInScope(existing, opts.SectionFilter)
	}

	if start >= total {
		logger.InfoContext(ctx, "nothing to embed",
			"filing", key.String(), "section", opts.SectionFilter, "total", total)
		res := Result{Embedded: 0, Total: total, Start: start}
		s.recordRun(ctx, key, opts, res, began)
		return res, nil
	}

	end := start + opts.MaxChunks
	if end > total {
		end = total
	}
	work := candidates[start:end]

	logger.InfoContext(ctx, "embedding batch started",
		"filing", key.String(), "section", opts.SectionFilter,
		"start", start, "work", len(work), "total", total, "batch_size", opts.BatchSize)

	embedded := 0
	for sub := 0; sub < len(work); sub += opts.BatchSize {
		subEnd := sub + opts.BatchSize
		if subEnd > len(work) {
			subEnd = len(work)
		}
		batch := work[sub:subEnd]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return Result{Embedded: embedded, Total: total, Start: start},
				fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		if len(vectors) != len(batch) {
			return Result{Embedded: embedded, Total: total, Start: start},
				fmt.Errorf("%w: expected %d vectors, got %d", ErrUpstream, len(batch), len(vectors))
		}

		for i, c := range batch {
			existing = append(existing, store.EmbeddingRecord{
				Embedding: vectors[i],
				Text:      c.Text,
				Metadata:  c.Metadata,
			})
		}

		// Persist per sub-batch so a later failure does not erase progress
		// already made within this call.
		if err := s.store.WriteEmbeddings(key, existing); err != nil {
			return Result{Embedded: embedded, Total: total, Start: start}, err
		}
		embedded += len(batch)

		if subEnd < len(work) {
			time.Sleep(s.delay)
		}
	}

	res := Result{Embedded: embedded, Total: total, Start: start}
	logger.InfoContext(ctx, "embedding batch completed",
		"filing", key.String(), "embedded", res.Embedded, "start", res.Start,
		"total", res.Total, "duration_ms", time.Since(began).Milliseconds())
	s.recordRun(ctx, key, opts, res, began)
	return res, nil
}

// recordRun appends to the run log. Best effort: a log failure never fails
// the embedding call that produced the records.
func (s *Service) recordRun(ctx context.Context, key filing.Key, opts Options, res Result, began time.Time) {
	if s.runs == nil {
		return
	}
	run := &storage.RunRecord{
		ID:            uuid.New().String(),
		Ticker:        key.Ticker,
		Form:          key.Form,
		Filed:         key.Filed,
		SectionFilter: opts.SectionFilter,
		StartIndex:    res.Start,
		Embedded:      res.Embedded,
		Total:         res.Total,
		DurationMs:    time.Since(began).Milliseconds(),
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record embed run",
			"filing", key.String(), "error", err)
	}
}

// filterBySection keeps chunks whose section name contains the filter
// substring, case-insensitive. An empty filter keeps everything.
func filterBySection(chunks []chunker.Chunk, filter string) []chunker.Chunk {
	if filter == "" {
		return chunks
	}
	needle := strings.ToLower(filter)
	out := make([]chunker.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if strings.Contains(strings.ToLower(c.Metadata.Section), needle) {
			out = append(out, c)
		}
	}
	return out
}

// countInScope counts existing records matching the same section scope; this
// is the resume offset.
func countInScope(records []store.EmbeddingRecord, filter string) int {
	if filter == "" {
		return len(records)
	}
	needle := strings.ToLower(filter)
	n := 0
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Metadata.Section), needle) {
			n++
		}
	}
	return n
}
