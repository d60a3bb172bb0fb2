package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/flowboard/pkg/observability"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the editor API for the sessions of one Manager.
type Server struct {
	Sessions *session.Manager
	Registry *registry.Registry
	Streams  *StreamManager

	version  string
	origins  []string
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	validate *validator.Validate
	logger   *slog.Logger
	attachMu sync.Mutex
	attached map[string]attachment
}

// Option configures the Server.
type Option func(*Server)

// WithVersion sets the application version reported by /api/info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// WithAllowedOrigins sets the CORS origins. Without it any origin is allowed.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMetrics records graph events of attached sessions and exposes g on /api/metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a Server. reg is the node type catalog served on /api/types.
func NewServer(sessions *session.Manager, reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		Registry: reg,
		version:  "dev",
		origins:  []string{"*"},
		validate: validator.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for the editor API.
func NewHandler(sessions *session.Manager, reg *registry.Registry, opts ...Option) http.Handler {
	return NewServer(sessions, reg, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/openapi.yaml", s.GetOpenAPI)
		r.Get("/types", s.ListTypes)
		if s.gatherer != nil {
			r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
		}

		r.Get("/sessions", s.ListSessions)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Delete("/", s.DeleteSession)
			r.Get("/graph", s.GetGraph)
			r.Put("/graph", s.ReplaceGraph)
			r.Get("/lint", s.LintGraph)
			r.Post("/nodes", s.DropNode)
			r.Post("/nodes/changes", s.ApplyNodeChanges)
			r.Get("/nodes/{id}", s.RenderNode)
			r.Put("/nodes/{id}/fields/{key}", s.SetField)
			r.Post("/edges", s.Connect)
			r.Post("/edges/changes", s.ApplyEdgeChanges)
			r.Post("/submit", s.Submit)
			r.Post("/save", s.Save)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

// GetHealth handles GET /api/health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /api/info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := OpenAPI(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "flowboard-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

// GetOpenAPI handles GET /api/openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(rawOpenAPI)
}

// ListTypes handles GET /api/types.
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	defs := s.Registry.Types()
	out := make([]typeView, len(defs))
	for i, d := range defs {
		out[i] = newTypeView(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
