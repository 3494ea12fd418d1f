package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks github.com/lritter14/filing-rag/internal/llm Embedder

import "context"

// Embedder maps texts to fixed-length dense vectors. Implementations are
// deterministic per model version: same text in, same vector out, one output
// dimensionality. Safe for concurrent use.
type Embedder interface {
	// EmbedTexts returns one vector per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
