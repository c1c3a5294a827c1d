// ABOUTME: HTTP server for the diabetes care dashboard: AI relay plus indicator data API
// ABOUTME: behind a single chi router with origin checks and request logging.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/SulemanSupreme/fingertips/fingertips/store"
	"github.com/SulemanSupreme/fingertips/llm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultAreaType is the geography the dashboard shows when none is requested.
const DefaultAreaType = "ICBs"

// CacheClearer is implemented by data sources that keep a local cache.
type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

// Server serves the analysis relay and the indicator data endpoints. The model
// client may be nil when no API key is configured; relay endpoints then degrade
// (analyze errors, suggest falls back) while data endpoints keep working.
type Server struct {
	llm    llm.Client
	model  string
	data   store.Source
	router chi.Router
	addr   string
}

// ServerConfig holds the configuration for the dashboard server.
type ServerConfig struct {
	Addr  string       // listen address (default: "127.0.0.1:8110")
	LLM   llm.Client   // model provider client, nil when unconfigured
	Model string       // model identifier passed upstream
	Data  store.Source // indicator observation source, nil disables data routes
}

// NewServer creates a Server with the given configuration and sets up routing.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8110"
	}
	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel
	}

	s := &Server{
		llm:   cfg.LLM,
		model: cfg.Model,
		data:  cfg.Data,
		addr:  cfg.Addr,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured address. The write
// timeout is generous because /analyze holds the connection open while the
// upstream model streams.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return srv.ListenAndServe()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(checkOrigin)

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/suggest", s.handleSuggest)

	r.Get("/indicators", s.handleIndicators)
	r.Get("/time-periods", s.handleTimePeriods)
	r.Get("/data", s.handleData)
	r.Get("/summary", s.handleSummary)
	r.Get("/rankings", s.handleRankings)
	r.Get("/correlation", s.handleCorrelation)
	r.Post("/cache/clear", s.handleClearCache)

	return r
}
