// Package api exposes the note service over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/quire/pkg/core"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server routes HTTP requests to a core.Service.
type Server struct {
	svc      *core.Service
	router   *mux.Router
	handler  http.Handler
	logger   *slog.Logger
	validate *validator.Validate
	origins  []string
	version  string
	metrics  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllowedOrigins sets the CORS allow list. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithVersion sets the version reported by /api/status.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithMetrics enables the /metrics endpoint and request instrumentation. Enabled by default.
func WithMetrics(enabled bool) Option {
	return func(s *Server) {
		s.metrics = enabled
	}
}

// NewServer builds the router for svc.
func NewServer(svc *core.Service, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		router:   mux.NewRouter(),
		logger:   slog.New(slog.DiscardHandler),
		validate: validator.New(),
		origins:  []string{"*"},
		version:  "dev",
		metrics:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	s.handler = s.corsMiddleware(s.router)
	return s
}

func (s *Server) routes() {
	s.router.Use(s.loggingMiddleware)
	if s.metrics {
		s.router.Use(metricsMiddleware)
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	s.router.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	s.router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)

	s.router.HandleFunc("/api/notes", s.handleListNotes).Methods(http.MethodGet)
	s.router.HandleFunc("/api/notes", s.handleCreateNote).Methods(http.MethodPost)
	s.router.HandleFunc("/api/notes/{id}", s.handleGetNote).Methods(http.MethodGet)
	s.router.HandleFunc("/api/notes/{id}", s.handleUpdateNote).Methods(http.MethodPut)
	s.router.HandleFunc("/api/notes/{id}", s.handleDeleteNote).Methods(http.MethodDelete)

	// Router middleware only runs for matched routes.
	var notFound http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})
	var notAllowed http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
	if s.metrics {
		notFound = metricsMiddleware(notFound)
		notAllowed = metricsMiddleware(notAllowed)
	}
	s.router.NotFoundHandler = notFound
	s.router.MethodNotAllowedHandler = notAllowed
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
