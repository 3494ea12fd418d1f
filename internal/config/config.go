package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DataDir            string
	DBPath             string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
	VectorSize         int
	ChunkSize          int
	ChunkOverlap       int
	MaxChunksPerCall   int
	BatchDelay         time.Duration
	SkipEmbedderProbe  bool
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads configuration from environment variables, applying defaults for
// optional fields and validating the rest. A .env file in the current
// directory or any parent up to the project root is loaded first; variables
// already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()
	loadProjectEnv()

	cfg := &Config{
		DataDir:            getEnv("DATA_DIR", "./data"),
		DBPath:             getEnv("DB_PATH", "./data/filing-rag.db"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		SkipEmbedderProbe:  getEnv("SKIP_EMBEDDER_PROBE", "") != "",
	}

	// Must match the embedding model's output dimensionality; every stored
	// vector is validated against it.
	vectorSize, err := intEnv("EMBEDDING_VECTOR_SIZE", 0)
	if err != nil {
		return nil, err
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE is required and must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	if cfg.ChunkSize, err = intEnv("CHUNK_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = intEnv("CHUNK_OVERLAP", 200); err != nil {
		return nil, err
	}
	if cfg.ChunkSize <= 0 || cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("chunk configuration requires CHUNK_SIZE > CHUNK_OVERLAP >= 0, got %d/%d",
			cfg.ChunkSize, cfg.ChunkOverlap)
	}

	if cfg.MaxChunksPerCall, err = intEnv("EMBED_MAX_CHUNKS", 5); err != nil {
		return nil, err
	}

	delayMs, err := intEnv("EMBED_BATCH_DELAY_MS", 25)
	if err != nil {
		return nil, err
	}
	cfg.BatchDelay = time.Duration(delayMs) * time.Millisecond

	switch getEnv("LOG_LEVEL", "info") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	return cfg, nil
}

// loadProjectEnv walks up from the working directory looking for a .env next
// to go.mod, so the server can be started from a subdirectory.
func loadProjectEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}
