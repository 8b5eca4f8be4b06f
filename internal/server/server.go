package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Digital-Shane/release-lens/internal/config"
	"github.com/Digital-Shane/release-lens/internal/core"
	"github.com/Digital-Shane/release-lens/internal/provider"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Resolver resolves a filename into a lookup outcome. *core.Engine satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, filename, apiKey string) core.Outcome
}

// Server exposes parsing and lookups over HTTP
type Server struct {
	addr       string
	resolver   Resolver
	details    provider.DetailFetcher
	keys       config.KeyStore
	logger     logrus.FieldLogger
	httpServer *http.Server
}

// NewServer creates a server listening on addr. The API key is read from keys
// on every request so a reloaded config takes effect without a restart.
func NewServer(addr string, resolver Resolver, details provider.DetailFetcher, keys config.KeyStore, logger logrus.FieldLogger) *Server {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	s := &Server{
		addr:     addr,
		resolver: resolver,
		details:  details,
		keys:     keys,
		logger:   logger,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router builds the route table with logging middleware applied
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(requestID, s.accessLog)

	router.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/parse", s.Parse).Methods(http.MethodGet)
	api.HandleFunc("/resolve", s.Resolve).Methods(http.MethodGet)
	api.HandleFunc("/movie/{id}", s.MovieDetails).Methods(http.MethodGet)
	api.HandleFunc("/tv/{id}", s.TvDetails).Methods(http.MethodGet)

	router.NotFoundHandler = requestID(s.accessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})))
	return router
}

// Start listens until the server is stopped
func (s *Server) Start() error {
	s.logger.WithField("addr", s.addr).Info("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx is done
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
