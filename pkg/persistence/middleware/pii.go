package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/ports"
)

// Mask replaces redacted values in persisted snapshots.
const Mask = "***"

// DefaultRedactPatterns match data keys that usually carry credentials.
var DefaultRedactPatterns = []string{`(?i)api[_-]?key`, `(?i)token`, `(?i)secret`, `(?i)password`}

type redactMiddleware struct {
	next     ports.GraphStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks node data values whose key matches one of patterns
// before the snapshot reaches the next store. The live graph is left untouched.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.GraphStore) ports.GraphStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, sessionID string, g domain.Graph) error {
	masked := domain.Graph{Nodes: make([]domain.Node, len(g.Nodes)), Edges: g.Edges}
	for i, n := range g.Nodes {
		n.Data = deepCopyMap(n.Data)
		maskMap(n.Data, m.patterns)
		masked.Nodes[i] = n
	}
	return m.next.Save(ctx, sessionID, masked)
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (domain.Graph, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}
	}
}
