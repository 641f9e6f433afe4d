// Package api exposes the analysis engine over a small JSON/CSV HTTP
// surface. It serves no pages and renders no charts.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gohrm/internal"
	"gohrm/internal/config"
)

// Server wires the analysis endpoints onto a chi router
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *internal.Logger
}

// NewServer creates the HTTP server for the given configuration
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: internal.DefaultLogger.WithPrefix("API"),
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})
	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts serving on the configured port
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
