// Package graph renders pipeline graphs as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowboard/pkg/domain"
)

// GraphOverlay marks nodes to highlight on the chart.
type GraphOverlay struct {
	// Flagged nodes have lint errors or sit on a cycle.
	Flagged []string
	// Selected is the node the user is looking at.
	Selected string
}

// nameKeys are the data keys used, in order, to caption a node.
var nameKeys = []string{"inputName", "outputName", "label"}

// GenerateMermaid produces a Mermaid flowchart of g, left to right like the canvas.
// Shapes follow the node role:
// - Input: [/Parallelogram/]
// - Output: [\Parallelogram\]
// - LLM: [[Subroutine]]
// - Filter: {Rhombus}
// - Default: [Rectangle]
// Edges to nodes that do not exist are drawn dotted to a placeholder.
func GenerateMermaid(g domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	known := make(map[string]bool, len(g.Nodes))
	for _, node := range g.Nodes {
		known[node.ID] = true
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Type {
		case domain.NodeTypeInput:
			opener, closer = "[/", "/]"
		case domain.NodeTypeOutput:
			opener, closer = "[\\", "\\]"
		case domain.NodeTypeLLM:
			opener, closer = "[[", "]]"
		case domain.NodeTypeFilter:
			opener, closer = "{", "}"
		}

		label := node.ID
		if name := caption(node); name != "" {
			label = fmt.Sprintf("%s <br/> %s", node.ID, name)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escape(label), closer)
	}

	missing := make(map[string]bool)
	for _, e := range g.Edges {
		from, to := sanitizeMermaidID(e.Source), sanitizeMermaidID(e.Target)
		dangling := !known[e.Source] || !known[e.Target]
		for _, id := range []string{e.Source, e.Target} {
			if !known[id] && !missing[id] {
				missing[id] = true
				fmt.Fprintf(&sb, "    %s(\"? %s\")\n", sanitizeMermaidID(id), escape(id))
			}
		}

		label := handleLabel(e)
		switch {
		case dangling && label != "":
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", from, label, to)
		case dangling:
			fmt.Fprintf(&sb, "    %s -.-> %s\n", from, to)
		case label != "":
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, label, to)
		default:
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef flagged fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Flagged {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s flagged;\n", safeID)
			}
		}
		if overlay.Selected != "" {
			fmt.Fprintf(&sb, "    class %s selected;\n", sanitizeMermaidID(overlay.Selected))
		}
	}

	return sb.String()
}

func caption(n domain.Node) string {
	for _, k := range nameKeys {
		if v, ok := n.Value(k); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// handleLabel names the edge by its local handle names, "value→prompt".
func handleLabel(e domain.Edge) string {
	src := strings.TrimPrefix(e.SourceHandle, e.Source+"-")
	tgt := strings.TrimPrefix(e.TargetHandle, e.Target+"-")
	switch {
	case src == "" && tgt == "":
		return ""
	case src == "":
		return "→" + escape(tgt)
	case tgt == "":
		return escape(src) + "→"
	}
	return escape(src) + "→" + escape(tgt)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
