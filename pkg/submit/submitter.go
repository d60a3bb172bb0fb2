package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/observability"
)

// Validator is the external collaborator that judges a pipeline.
type Validator interface {
	Parse(ctx context.Context, g domain.Graph) (domain.PipelineResult, error)
}

// Snapshotter yields the graph to submit. *store.Store satisfies it.
type Snapshotter interface {
	Snapshot() domain.Graph
}

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is the user-facing outcome of a submission.
type Notification struct {
	Level   Level                  `json:"level"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Result  *domain.PipelineResult `json:"result,omitempty"`
}

// Notifier presents notifications to the user.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Submitter enforces the at-most-one-in-flight submission policy.
type Submitter struct {
	validator Validator
	notifier  Notifier
	metrics   *observability.Metrics
	logger    *slog.Logger
	inFlight  atomic.Bool
}

// Option configures the Submitter.
type Option func(*Submitter)

// WithNotifier sets where outcomes are reported.
func WithNotifier(n Notifier) Option {
	return func(s *Submitter) {
		s.notifier = n
	}
}

// WithMetrics records submission outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Submitter) {
		s.metrics = m
	}
}

// WithLogger configures a logger for the Submitter.
func WithLogger(l *slog.Logger) Option {
	return func(s *Submitter) {
		s.logger = l
	}
}

// NewSubmitter creates a Submitter that sends snapshots to v.
func NewSubmitter(v Validator, opts ...Option) *Submitter {
	s := &Submitter{
		validator: v,
		notifier:  NotifierFunc(func(Notification) {}),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending reports whether a submission is in flight.
func (s *Submitter) Pending() bool { return s.inFlight.Load() }

// Submit snapshots src and sends it to the validator.
// While a submission is pending every other call fails fast with domain.ErrSubmissionInFlight.
// A cyclic pipeline is a successful submission whose result has IsDAG false.
func (s *Submitter) Submit(ctx context.Context, src Snapshotter) (domain.PipelineResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.ObserveSubmission(observability.OutcomeBusy, 0)
		return domain.PipelineResult{}, domain.ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	g := src.Snapshot()
	start := time.Now()
	res, err := s.validator.Parse(ctx, g)
	elapsed := time.Since(start)

	if err != nil {
		s.fail(err, elapsed)
		return domain.PipelineResult{}, fmt.Errorf("submit pipeline: %w", err)
	}

	outcome := observability.OutcomeDAG
	if !res.IsDAG {
		outcome = observability.OutcomeCyclic
	}
	s.metrics.ObserveSubmission(outcome, elapsed)
	s.logger.Info("pipeline submitted",
		"nodes", res.NumNodes, "edges", res.NumEdges, "is_dag", res.IsDAG, "duration", elapsed)

	s.notifier.Notify(Notification{
		Level:   LevelSuccess,
		Title:   "Pipeline parsed successfully",
		Message: Summary(res),
		Result:  &res,
	})
	return res, nil
}

func (s *Submitter) fail(err error, elapsed time.Duration) {
	var rej *RejectedError
	switch {
	case errors.As(err, &rej):
		s.metrics.ObserveSubmission(observability.OutcomeRejected, elapsed)
		s.logger.Warn("validator rejected pipeline", "status", rej.Status, "error", err)
		s.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Pipeline submit failed",
			Message: rej.Error(),
		})
	default:
		s.metrics.ObserveSubmission(observability.OutcomeUnreachable, elapsed)
		s.logger.Error("validator unreachable", "error", err)
		s.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Network error submitting pipeline",
			Message: err.Error(),
		})
	}
}

// Summary formats a verdict the way the editor shows it.
func Summary(r domain.PipelineResult) string {
	dag := "No"
	if r.IsDAG {
		dag = "Yes"
	}
	return fmt.Sprintf("Nodes: %d\nEdges: %d\nIs DAG: %s", r.NumNodes, r.NumEdges, dag)
}
