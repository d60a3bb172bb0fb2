package validator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/flowboard/pkg/dag"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ParsePath is the analysis endpoint.
const ParsePath = "/pipelines/parse"

// MaxBodyBytes bounds the accepted request body.
const MaxBodyBytes = 8 << 20

const schemaURL = "mem://flowboard/pipeline.schema.json"

//go:embed pipeline.schema.json
var schemaJSON []byte

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		loadErr = err
		return
	}
	schema, loadErr = c.Compile(schemaURL)
}

// Validate checks a decoded JSON document against the pipeline schema.
func Validate(doc any) error {
	once.Do(load)
	if loadErr != nil {
		return fmt.Errorf("failed to load pipeline schema: %w", loadErr)
	}
	return schema.Validate(doc)
}

// wirePipeline keeps only what the analysis reads, so extra node and edge keys pass through untouched.
type wirePipeline struct {
	Nodes []struct {
		ID string `json:"id"`
	} `json:"nodes"`
	Edges []struct {
		Source string `json:"source"`
		Target string `json:"target"`
	} `json:"edges"`
}

func (p wirePipeline) graph() domain.Graph {
	g := domain.Graph{
		Nodes: make([]domain.Node, len(p.Nodes)),
		Edges: make([]domain.Edge, len(p.Edges)),
	}
	for i, n := range p.Nodes {
		g.Nodes[i] = domain.Node{ID: n.ID}
	}
	for i, e := range p.Edges {
		g.Edges[i] = domain.Edge{Source: e.Source, Target: e.Target}
	}
	return g
}

// Option configures the handler.
type Option func(*server)

// WithAllowedOrigins sets the CORS origins. Defaults to http://localhost:3000.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *server) {
		s.origins = origins
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *server) {
		s.logger = l
	}
}

type server struct {
	origins []string
	logger  *slog.Logger
}

// NewHandler returns the validator service router.
func NewHandler(opts ...Option) http.Handler {
	s := &server{
		origins: []string{"http://localhost:3000"},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.ping)
	r.Post(ParsePath, s.parse)
	return r
}

func (s *server) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Ping": "Pong"})
}

func (s *server) parse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeDetail(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed JSON: "+err.Error())
		return
	}
	if err := Validate(doc); err != nil {
		s.logger.Warn("Pipeline rejected", "err", err)
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var p wirePipeline
	if err := json.Unmarshal(body, &p); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result := dag.Analyze(p.graph())
	s.logger.Debug("Pipeline parsed", "nodes", result.NumNodes, "edges", result.NumEdges, "is_dag", result.IsDAG)
	writeJSON(w, http.StatusOK, result)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
