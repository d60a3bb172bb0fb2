// Package lint checks a pipeline graph for references the editor would never produce,
// such as edges to missing nodes or handles a node type does not declare.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/flowboard/pkg/dag"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/registry"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding.
type Issue struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"node_id,omitempty"`
	EdgeID   string   `json:"edge_id,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
}

// Report holds the findings of a lint run, errors first.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Errors returns only the error level findings.
func (r Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Err folds the error level findings into one error, or nil.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(msgs, "\n- "))
}

// Graph lints g against the node types in reg.
func Graph(g domain.Graph, reg *registry.Registry) Report {
	var issues []Issue
	add := func(sev Severity, nodeID, edgeID, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, NodeID: nodeID, EdgeID: edgeID, Message: fmt.Sprintf(format, args...)})
	}

	nodes := make(map[string]domain.Node, len(g.Nodes))
	handles := make(map[string][]domain.Handle, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			add(SeverityError, "", "", "Node of type '%s' has no id", n.Type)
			continue
		}
		if _, dup := nodes[n.ID]; dup {
			add(SeverityError, n.ID, "", "Duplicate node id: '%s'", n.ID)
			continue
		}
		nodes[n.ID] = n
		hs, err := reg.Handles(n)
		if err != nil {
			add(SeverityError, n.ID, "", "Unknown node type '%s' on node '%s'", n.Type, n.ID)
			continue
		}
		handles[n.ID] = hs
	}

	linked := make(map[string]bool, len(nodes))
	for _, e := range g.Edges {
		src, srcOK := nodes[e.Source]
		tgt, tgtOK := nodes[e.Target]
		if !srcOK {
			add(SeverityError, "", e.ID, "Missing node: edge '%s' leaves '%s'", e.ID, e.Source)
		}
		if !tgtOK {
			add(SeverityError, "", e.ID, "Missing node: edge '%s' enters '%s'", e.ID, e.Target)
		}
		if srcOK {
			linked[src.ID] = true
			checkHandle(add, e, src.ID, e.SourceHandle, domain.HandleSource, handles)
		}
		if tgtOK {
			linked[tgt.ID] = true
			checkHandle(add, e, tgt.ID, e.TargetHandle, domain.HandleTarget, handles)
		}
	}

	if len(nodes) > 1 {
		ids := make([]string, 0, len(nodes))
		for id := range nodes {
			if !linked[id] {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			add(SeverityWarning, id, "", "Node '%s' is not connected", id)
		}
	}

	if !dag.IsDAG(g) {
		add(SeverityWarning, "", "", "Pipeline contains a cycle")
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity == SeverityError && issues[j].Severity != SeverityError
	})
	return Report{Issues: issues}
}

func checkHandle(add func(Severity, string, string, string, ...any), e domain.Edge, nodeID, handleID string, kind domain.HandleKind, handles map[string][]domain.Handle) {
	hs, known := handles[nodeID]
	if !known {
		return
	}
	if handleID == "" {
		add(SeverityWarning, nodeID, e.ID, "Edge '%s' has no %s handle on '%s'", e.ID, kind, nodeID)
		return
	}
	if _, ok := registry.FindHandle(hs, kind, handleID); !ok {
		add(SeverityError, nodeID, e.ID, "Unknown %s handle '%s' on node '%s'", kind, handleID, nodeID)
	}
}
