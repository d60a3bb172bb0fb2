package flowboard

import (
	"log/slog"

	"github.com/aretw0/flowboard/internal/lint"
	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/internal/presentation/graph"
	"github.com/aretw0/flowboard/pkg/dag"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/submit"
)

// Version is the release of the flowboard module. It is overridden at build time with -ldflags.
var Version = "0.1.0"

// Editor is the high-level entry point for the library.
// It wraps an editor session over the built-in node registry.
type Editor struct {
	*editor.Session
}

type settings struct {
	validatorURL string
	policy       editor.ConnectPolicy
	strict       bool
	registry     *registry.Registry
	logger       *slog.Logger
}

// Option configures an Editor.
type Option func(*settings)

// WithValidator enables Submit against the validator at baseURL.
func WithValidator(baseURL string) Option {
	return func(s *settings) {
		s.validatorURL = baseURL
	}
}

// WithStrictConnections rejects connections to missing nodes or handles.
func WithStrictConnections() Option {
	return func(s *settings) {
		s.policy = editor.Strict
	}
}

// WithStrictFields rejects field values that fail their schema.
func WithStrictFields() Option {
	return func(s *settings) {
		s.strict = true
	}
}

// WithRegistry replaces the built-in node types.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *settings) {
		s.registry = reg
	}
}

// WithLogger sets a structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// New creates an Editor over an empty graph.
func New(opts ...Option) *Editor {
	cfg := settings{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = registry.Builtin()
	}

	eopts := []editor.Option{
		editor.WithConnectPolicy(cfg.policy),
		editor.WithStrictFields(cfg.strict),
		editor.WithLogger(cfg.logger),
	}
	if cfg.validatorURL != "" {
		client := submit.NewClient(cfg.validatorURL, submit.WithClientLogger(cfg.logger))
		eopts = append(eopts, editor.WithSubmitter(submit.NewSubmitter(client, submit.WithLogger(cfg.logger))))
	}
	return &Editor{Session: editor.New(cfg.registry, eopts...)}
}

// Lint checks the current graph for dangling edges, unknown handles and cycles.
func (e *Editor) Lint() lint.Report {
	return lint.Graph(e.Graph(), e.Registry())
}

// Analyze computes the validator's verdict locally.
func (e *Editor) Analyze() domain.PipelineResult {
	return dag.Analyze(e.Graph())
}

// Mermaid renders the current graph as a Mermaid flowchart.
func (e *Editor) Mermaid() string {
	return graph.GenerateMermaid(e.Graph(), nil)
}
