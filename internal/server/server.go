// Package server exposes the HTTP API consumed by the browser UI: provider
// CRUD, import/export, model discovery and connection testing. The routing is
// deliberately thin; all behavior lives in the config store and the probe
// client.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"provmgr/config"
	"provmgr/internal/logging"
	"provmgr/internal/probe"
)

const shutdownGrace = 5 * time.Second

// Server wires the config store and probe client behind the HTTP API.
type Server struct {
	store *config.Store
	probe *probe.Client
	http  *http.Server
}

// New builds a server listening on addr.
func New(store *config.Store, probeClient *probe.Client, addr string) *Server {
	s := &Server{
		store: store,
		probe: probeClient,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSaveProvider)
	mux.HandleFunc("DELETE /api/config/{id}", s.handleDeleteProvider)
	mux.HandleFunc("GET /api/config/export", s.handleExport)
	mux.HandleFunc("POST /api/config/import", s.handleImport)
	mux.HandleFunc("POST /api/discover-models", s.handleDiscoverModels)
	mux.HandleFunc("POST /api/test-model", s.handleTestModel)
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.Handle("GET /", staticHandler())

	s.http = &http.Server{
		Addr:    addr,
		Handler: withRequestLog(mux),
	}
	return s
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info("HTTP", "listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
