package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeEmbeddingsServer serves an OpenAI-style /v1/embeddings endpoint that
// returns a fixed-dimension vector per input.
func fakeEmbeddingsServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type datum struct {
			Embedding []float64 `json:"embedding"`
		}
		resp := struct {
			Data []datum `json:"data"`
		}{}
		for i := range req.Input {
			vec := make([]float64, dim)
			vec[i%dim] = 1
			resp.Data = append(resp.Data, datum{Embedding: vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	srv := fakeEmbeddingsServer(t, 4)
	defer srv.Close()

	client := NewEmbeddingsClient(srv.URL, "test-key", "test-model", 4)
	vecs, err := client.EmbedTexts(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("EmbedTexts() = %d vectors, want 2", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 4 {
			t.Errorf("vector %d has dimension %d, want 4", i, len(v))
		}
	}
}

func TestEmbeddingsClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:0", "k", "m", 4)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Error("EmbedTexts() with empty input should fail")
	}
}

func TestEmbeddingsClient_EmbedTexts_DimensionMismatch(t *testing.T) {
	srv := fakeEmbeddingsServer(t, 4)
	defer srv.Close()

	client := NewEmbeddingsClient(srv.URL, "test-key", "test-model", 8)
	if _, err := client.EmbedTexts(context.Background(), []string{"alpha"}); err == nil {
		t.Error("EmbedTexts() should reject vectors of the wrong dimension")
	}
}

func TestEmbeddingsClient_EmbedTexts_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewEmbeddingsClient(srv.URL, "test-key", "test-model", 4)
	if _, err := client.EmbedTexts(context.Background(), []string{"alpha"}); err == nil {
		t.Error("EmbedTexts() should surface server errors")
	}
}

func TestSharedEmbedder_SingleInstance(t *testing.T) {
	a := SharedEmbedder("http://localhost:8081", "k", "m", 4)
	b := SharedEmbedder("http://other:9999", "x", "y", 8)
	if a != b {
		t.Error("SharedEmbedder must return the same instance on every call")
	}
}
