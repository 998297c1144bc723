// Package server serves the person list and root lookup over HTTP.
//
// Trees are never built here. Clients fetch the person list and run the
// engine in process (see package pipeline), so the server only stores
// people and answers root searches.
//
// # Routes
//
//	GET  /healthz        liveness, person count and build info
//	GET  /api/people     the current person list
//	PUT  /api/people     replace the person list (full replacement)
//	GET  /api/resolve    the root identifier for free-text input
//	GET  /api/suggest    root suggestions for a query
//
// The "nothing to show" states are not server errors: /api/resolve answers
// 409 for an empty person list and 404 for input that matches nobody, both
// with the status line a client should display.
//
// # State
//
// The server holds one immutable [pipeline.Dataset]. PUT /api/people builds
// a new dataset and swaps it in; in-flight requests keep the one they
// started with.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/pipeline"
	"github.com/deepgen/famtree/pkg/source"
)

// maxBodyBytes bounds PUT /api/people bodies.
const maxBodyBytes = 32 << 20

// Config configures a Server.
type Config struct {
	// Source provides the initial person list. When it also implements
	// source.Saver, replacements are written back to it.
	Source source.Source

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	source source.Source
	logger *log.Logger
	router chi.Router

	mu      sync.RWMutex
	dataset *pipeline.Dataset

	// replaceMu serializes Replace so the saved list and the served
	// dataset always come from the same call.
	replaceMu sync.Mutex
}

// New creates a server and loads the initial person list.
func New(ctx context.Context, cfg Config) (*Server, error) {
	s := &Server{
		source:  cfg.Source,
		logger:  cfg.Logger,
		dataset: pipeline.NewDataset(nil),
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if s.source != nil {
		persons, err := s.source.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.dataset = pipeline.NewDataset(persons)
		s.logger.Info("loaded people", "count", len(persons))
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/people", s.handleGetPeople)
		r.Put("/people", s.handlePutPeople)
		r.Get("/resolve", s.handleResolve)
		r.Get("/suggest", s.handleSuggest)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Dataset returns the current dataset.
func (s *Server) Dataset() *pipeline.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Replace swaps in a new person list, writing it back to the source when the
// source supports it.
func (s *Server) Replace(ctx context.Context, persons []person.Record) (*pipeline.Dataset, error) {
	s.replaceMu.Lock()
	defer s.replaceMu.Unlock()

	if saver, ok := s.source.(source.Saver); ok {
		if err := saver.Save(ctx, persons); err != nil {
			return nil, err
		}
	}
	ds := pipeline.NewDataset(persons)

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	s.logger.Info("replaced people", "count", ds.Len(), "hash", shortHash(ds.Hash()))
	return ds, nil
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
