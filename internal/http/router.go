package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lritter14/filing-rag/internal/embed"
	"github.com/lritter14/filing-rag/internal/handlers"
	"github.com/lritter14/filing-rag/internal/llm"
	"github.com/lritter14/filing-rag/internal/retrieval"
	"github.com/lritter14/filing-rag/internal/storage"
	"github.com/lritter14/filing-rag/internal/store"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Store        *store.FileStore
	EmbedService *embed.Service
	Retrieval    *retrieval.Engine
	Embedder     llm.Embedder
	RunRepo      storage.RunStore
	ChunkSize    int
	ChunkOverlap int
	MaxChunks    int
}

// NewRouter creates the API router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORS)

	textHandler := handlers.NewTextHandler(deps.Store)
	sectionsHandler := handlers.NewSectionsHandler(deps.Store, deps.ChunkSize, deps.ChunkOverlap)
	embedHandler := handlers.NewEmbedHandler(deps.EmbedService, deps.MaxChunks)
	queryHandler := handlers.NewQueryHandler(deps.Retrieval)
	filingsHandler := handlers.NewFilingsHandler(deps.Store)
	healthHandler := handlers.NewHealthHandler(deps.Embedder)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPut, "/filings/text", textHandler)
		r.Method(http.MethodPost, "/sections", sectionsHandler)
		r.Method(http.MethodPost, "/embed", embedHandler)
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodGet, "/filings", filingsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)

		if deps.RunRepo != nil {
			r.Method(http.MethodGet, "/runs", handlers.NewRunsHandler(deps.RunRepo))
		}
	})

	return r
}
