package llm

import "sync"

var (
	sharedOnce   sync.Once
	sharedClient *EmbeddingsClient
)

// SharedEmbedder returns the process-wide embeddings client, initializing it
// exactly once. Concurrent first callers race to the same instance; later
// calls ignore their arguments and return the already-initialized client.
func SharedEmbedder(baseURL, apiKey, model string, dim int) *EmbeddingsClient {
	sharedOnce.Do(func() {
		sharedClient = NewEmbeddingsClient(baseURL, apiKey, model, dim)
	})
	return sharedClient
}
