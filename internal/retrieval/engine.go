package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/lritter14/filing-rag/internal/chunker"
	"github.com/lritter14/filing-rag/internal/contextutil"
	"github.com/lritter14/filing-rag/internal/embed"
	"github.com/lritter14/filing-rag/internal/filing"
	"github.com/lritter14/filing-rag/internal/llm"
	"github.com/lritter14/filing-rag/internal/store"
)

// DefaultTopK is how many results a query returns when the caller does not
// say.
const DefaultTopK = 5

// Result is one ranked record from a similarity query. Index is the record's
// position in the embedding store.
type Result struct {
	Index    int              `json:"idx"`
	Score    float64          `json:"score"`
	Text     string           `json:"text"`
	Metadata chunker.Metadata `json:"metadata"`
}

// Engine answers similarity queries against a filing's embedding store by
// brute-force cosine scoring.
type Engine struct {
	store    *store.FileStore
	embedder llm.Embedder
}

// NewEngine creates a retrieval engine.
func NewEngine(fs *store.FileStore, embedder llm.Embedder) *Engine {
	return &Engine{store: fs, embedder: embedder}
}

// Search embeds the query, scores every record for the filing, and returns
// the topK highest by cosine similarity. Ties keep store order. topK beyond
// the record count returns everything, score-sorted. Returns
// store.ErrNotFound when the filing has no embeddings yet.
func (e *Engine) Search(ctx context.Context, key filing.Key, query string, topK int) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		topK = DefaultTopK
	}

	records, err := e.store.ReadEmbeddings(key)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("embeddings for %s are empty: %w", key, store.ErrNotFound)
	}

	vectors, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed query: %v", embed.ErrUpstream, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", embed.ErrUpstream)
	}
	queryVec := vectors[0]

	results := make([]Result, len(records))
	for i, rec := range records {
		results[i] = Result{
			Index:    i,
			Score:    cosineSimilarity(queryVec, rec.Embedding),
			Text:     rec.Text,
			Metadata: rec.Metadata,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}

	logger.DebugContext(ctx, "similarity search completed",
		"filing", key.String(), "records", len(records), "returned", len(results))
	return results, nil
}
