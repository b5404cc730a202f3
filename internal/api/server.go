package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"textify/internal/config"
	"textify/internal/deps"
	"textify/internal/logging"
	"textify/internal/preflight"
	"textify/internal/workflow"
)

// Runner executes transcription requests.
type Runner interface {
	Run(ctx context.Context, req workflow.Request) (*workflow.Job, error)
}

// Option configures a Server.
type Option func(*Server)

// WithHealthCheck replaces the tool availability check.
func WithHealthCheck(check func(*config.Config) []deps.Status) Option {
	return func(s *Server) {
		if check != nil {
			s.health = check
		}
	}
}

// Server exposes the transcription workflow over HTTP.
type Server struct {
	cfg    *config.Config
	runner Runner
	logger *slog.Logger
	health func(*config.Config) []deps.Status
	jobs   *jobRegistry
	router chi.Router
}

// NewServer builds the HTTP handler tree for runner.
func NewServer(cfg *config.Config, runner Runner, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("api server requires config and runner")
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "api"),
		health: preflight.CheckTools,
		jobs:   newJobRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(corsOptions(s.cfg.Server.AllowedOrigins)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/models", s.handleModels)

		r.Route("/transcriptions", func(r chi.Router) {
			r.Post("/url", s.handleTranscribeURL)
			r.Post("/file", s.handleTranscribeFile)
			r.Get("/{id}", s.handleGetTranscription)
			r.Get("/{id}/{kind}", s.handleArtifact)
			r.Delete("/{id}", s.handleDeleteTranscription)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured bind address until ctx is
// cancelled. onListen, when set, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, onListen func(net.Addr)) error {
	bind := strings.TrimSpace(s.cfg.Server.Bind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}

	// Transcription requests hold the connection until whisper exits, so
	// only header reads and idle connections are bounded.
	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	if onListen != nil {
		onListen(listener.Addr())
	}

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api shutdown incomplete", logging.Error(err))
	}
	s.Close()
	return nil
}

// Close removes the directories of every job still held by the server.
func (s *Server) Close() {
	for _, job := range s.jobs.drain() {
		if err := job.Cleanup(); err != nil {
			s.logger.Warn("job cleanup failed", logging.String(logging.FieldJobID, job.ID), logging.Error(err))
		}
	}
}
