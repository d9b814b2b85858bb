package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docoutline/internal/chunker"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// OutlineStore lists and removes published outlines.
type OutlineStore interface {
	List(ctx context.Context, limit int) ([]pathstore.Summary, error)
	Delete(ctx context.Context, docID string) error
}

// Server is the HTTP API server for docoutline.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        OutlineStore
	counter      chunker.Counter
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. store may be nil when
// publication is disabled.
func NewServer(orch *pipeline.Orchestrator, store OutlineStore, counter chunker.Counter, log *slog.Logger, cfg config.Config) *Server {
	if counter == nil {
		counter = chunker.Heuristic{}
	}
	s := &Server{
		orchestrator: orch,
		store:        store,
		counter:      counter,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Post("/api/outline", s.handleOutline)

		r.Post("/api/jobs", s.handleSubmit)
		r.Post("/api/jobs/batch", s.handleBatchSubmit)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/outline", s.handleJobOutline)
		r.Get("/api/jobs/{jobID}/chunks", s.handleJobChunks)

		r.Get("/api/stats", s.handleStats)
		r.Get("/api/catalog", s.handleCatalog)

		r.Get("/api/outlines", s.handleListOutlines)
		r.Delete("/api/outlines/{docID}", s.handleDeleteOutline)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
