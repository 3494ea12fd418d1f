package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/lritter14/filing-rag/internal/config"
	"github.com/lritter14/filing-rag/internal/embed"
	"github.com/lritter14/filing-rag/internal/http"
	"github.com/lritter14/filing-rag/internal/llm"
	"github.com/lritter14/filing-rag/internal/retrieval"
	"github.com/lritter14/filing-rag/internal/storage"
	"github.com/lritter14/filing-rag/internal/store"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Run log database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	runRepo := storage.NewRunRepo(db)
	slog.Info("Run log initialized", "path", cfg.DBPath)

	// Filing artifact store
	fileStore := store.NewFileStore(cfg.DataDir)
	slog.Info("Filing store initialized", "data_dir", cfg.DataDir)

	// Embedding client: initialized once for the whole process, validated
	// against the configured vector size before serving (fail-fast).
	embedder := llm.SharedEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	if !cfg.SkipEmbedderProbe {
		ctx := context.Background()
		probe, err := embedder.EmbedTexts(ctx, []string{"test"})
		if err != nil {
			log.Fatalf("Failed to validate embedding client: %v", err)
		}
		if len(probe) == 0 || len(probe[0]) != cfg.VectorSize {
			log.Fatalf("Embedding vector size mismatch: expected %d", cfg.VectorSize)
		}
		slog.Info("Embedding client validated", "vector_size", cfg.VectorSize, "model", cfg.EmbeddingModelName)
	}

	embedService := embed.NewService(fileStore, embedder, runRepo, cfg.BatchDelay)
	retrievalEngine := retrieval.NewEngine(fileStore, embedder)

	deps := &http.Deps{
		Store:        fileStore,
		EmbedService: embedService,
		Retrieval:    retrievalEngine,
		Embedder:     embedder,
		RunRepo:      runRepo,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		MaxChunks:    cfg.MaxChunksPerCall,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
