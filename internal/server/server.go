// Package server implements the Machina HTTP rendering service.
//
// The service exposes the same core as the CLI over a chi router:
// one-shot render endpoints that take a diagram definition in the request
// body, and a small diagram store for rendering saved definitions by ID.
// Rendered artifacts are cached by content hash, so repeated renders of
// an unchanged diagram skip the Graphviz layout step.
package server

import (
	"context"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/machviz/machina/pkg/cache"
	"github.com/machviz/machina/pkg/render"
	"github.com/machviz/machina/pkg/store"
)

// Config assembles the server's collaborators.
type Config struct {
	Addr      string           // listen address, e.g. ":8080"
	Store     store.Store      // saved diagram definitions
	Cache     cache.Cache      // rendered artifact cache
	Converter render.Converter // DOT-to-TikZ backend for digraphs
	Logger    *charmlog.Logger
}

// Server is the HTTP rendering service.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server with all routes mounted.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = charmlog.Default()
	}
	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Post("/render/fsm", s.handleRenderFSM)
	r.Post("/render/digraph", s.handleRenderDigraph)

	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleListDiagrams)
		r.Post("/", s.handleSaveDiagram)
		r.Get("/{id}", s.handleGetDiagram)
		r.Delete("/{id}", s.handleDeleteDiagram)
		r.Get("/{id}/render", s.handleRenderSaved)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Infof("Listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
