// Package api exposes the wine menu analysis over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"winescan/internal/config"
	"winescan/internal/enrich"
	"winescan/internal/ocr"
	"winescan/internal/pipeline"
)

// Server is the HTTP API server for winescan.
type Server struct {
	router   chi.Router
	analyzer *pipeline.Analyzer
	image    ocr.Engine
	pdf      ocr.Engine
	enricher *enrich.Enricher
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. The enricher may be
// nil when enrichment is disabled.
func NewServer(analyzer *pipeline.Analyzer, image, pdf ocr.Engine, enricher *enrich.Enricher, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		analyzer: analyzer,
		image:    image,
		pdf:      pdf,
		enricher: enricher,
		log:      log,
		cfg:      cfg,
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
	r.Use(CORS)

	r.Get("/health", s.handleHealth)

	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Get("/api/v1/stats/enrichment", s.handleEnrichmentStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
