package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/sony/gobreaker"
)

// ParsePath is the validator endpoint, relative to its base URL.
const ParsePath = "/pipelines/parse"

// maxBody bounds how much of a rejection body is kept.
const maxBody = 64 << 10

// RejectedError is returned when the validator answers with a non-success status.
type RejectedError struct {
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("validator rejected pipeline: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("validator rejected pipeline: %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
}

// Unwrap lets callers match with errors.Is(err, domain.ErrValidatorRejected).
func (e *RejectedError) Unwrap() error { return domain.ErrValidatorRejected }

// BreakerSettings tune the circuit breaker guarding the validator.
type BreakerSettings struct {
	MaxRequests      uint32        // Requests allowed through while half-open.
	Interval         time.Duration // Window after which closed-state counts reset.
	Timeout          time.Duration // Time spent open before probing again.
	MinRequests      uint32        // Requests needed before the failure ratio is considered.
	FailureThreshold float64       // Failure ratio that opens the breaker.
}

// DefaultBreakerSettings returns conservative breaker settings for an interactive editor.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.8,
	}
}

// Client calls the external validator.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	http    *http.Client
	breaker BreakerSettings
	logger  *slog.Logger
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		cfg.http = c
	}
}

// WithBreaker overrides the circuit breaker settings.
func WithBreaker(s BreakerSettings) ClientOption {
	return func(cfg *clientConfig) {
		cfg.breaker = s
	}
}

// WithClientLogger sets the logger used for breaker state changes.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = l
	}
}

// NewClient creates a validator client for baseURL (e.g. "http://localhost:8000").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		http:    &http.Client{Timeout: 30 * time.Second},
		breaker: DefaultBreakerSettings(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	bs := cfg.breaker
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    cfg.http,
		logger:  logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "validator",
			MaxRequests: bs.MaxRequests,
			Interval:    bs.Interval,
			Timeout:     bs.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < bs.MinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= bs.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
			// A 4xx means the validator is healthy and disliked the input.
			IsSuccessful: func(err error) bool {
				var rej *RejectedError
				if errors.As(err, &rej) {
					return rej.Status < 500
				}
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// BaseURL returns the validator base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Parse submits g and decodes the validator verdict.
// Transport failures and an open breaker wrap domain.ErrValidatorUnreachable;
// non-2xx answers return a *RejectedError. A 2xx reply missing a verdict field
// or carrying a negative count wraps domain.ErrValidatorRejected.
func (c *Client) Parse(ctx context.Context, g domain.Graph) (domain.PipelineResult, error) {
	if g.Nodes == nil {
		g.Nodes = []domain.Node{}
	}
	if g.Edges == nil {
		g.Edges = []domain.Edge{}
	}
	payload, err := json.Marshal(g)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("encode pipeline: %w", err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.PipelineResult{}, fmt.Errorf("%w: %v", domain.ErrValidatorUnreachable, err)
		}
		return domain.PipelineResult{}, err
	}
	return out.(domain.PipelineResult), nil
}

func (c *Client) do(ctx context.Context, payload []byte) (domain.PipelineResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ParsePath, bytes.NewReader(payload))
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("%w: %v", domain.ErrValidatorUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("%w: %w", domain.ErrValidatorUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return domain.PipelineResult{}, &RejectedError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("%w: read response: %w", domain.ErrValidatorUnreachable, err)
	}
	var reply verdict
	if err := json.Unmarshal(body, &reply); err != nil {
		return domain.PipelineResult{}, fmt.Errorf("%w: decode response: %w", domain.ErrValidatorUnreachable, err)
	}
	return reply.result(strings.TrimSpace(string(body)))
}

// verdict is the wire form of a success reply; nil fields were absent.
type verdict struct {
	NumNodes *int  `json:"num_nodes"`
	NumEdges *int  `json:"num_edges"`
	IsDAG    *bool `json:"is_dag"`
}

func (v verdict) result(body string) (domain.PipelineResult, error) {
	if v.NumNodes == nil || v.NumEdges == nil || v.IsDAG == nil {
		return domain.PipelineResult{}, fmt.Errorf("%w: incomplete verdict: %s", domain.ErrValidatorRejected, body)
	}
	if *v.NumNodes < 0 || *v.NumEdges < 0 {
		return domain.PipelineResult{}, fmt.Errorf("%w: negative counts: %s", domain.ErrValidatorRejected, body)
	}
	return domain.PipelineResult{NumNodes: *v.NumNodes, NumEdges: *v.NumEdges, IsDAG: *v.IsDAG}, nil
}
