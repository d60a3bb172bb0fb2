package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowboard/internal/lint"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/schema"
)

// CatalogMarkdown lists node types with their fields and handles.
func CatalogMarkdown(defs []registry.Definition) string {
	var sb strings.Builder
	sb.WriteString("# Node types\n\n")
	for _, d := range defs {
		fmt.Fprintf(&sb, "## %s `%s`\n\n", d.Title, d.Type)
		if d.Description != "" {
			sb.WriteString(d.Description + "\n\n")
		}
		if len(d.Fields) > 0 {
			sb.WriteString("| Field | Kind | Default |\n|---|---|---|\n")
			for _, f := range d.Fields {
				fmt.Fprintf(&sb, "| %s | %s | %s |\n", f.Key, f.Kind, defaultText(f))
			}
			sb.WriteString("\n")
		}
		if d.Dynamic() {
			sb.WriteString("Handles: one target per `{{variable}}` in the text, plus `output`.\n\n")
			continue
		}
		var ins, outs []string
		for _, h := range d.Handles {
			if h.Kind == domain.HandleTarget {
				ins = append(ins, "`"+h.Name+"`")
			} else {
				outs = append(outs, "`"+h.Name+"`")
			}
		}
		fmt.Fprintf(&sb, "Handles: in %s, out %s\n\n", orNone(ins), orNone(outs))
	}
	return sb.String()
}

func defaultText(f schema.Field) string {
	if f.DefaultFunc != nil {
		return "_computed_"
	}
	if f.Default == nil {
		return ""
	}
	s := fmt.Sprint(f.Default)
	if s == "" {
		return `""`
	}
	return "`" + strings.ReplaceAll(s, "|", "\\|") + "`"
}

func orNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}

// ResultMarkdown formats a validator verdict.
func ResultMarkdown(r domain.PipelineResult) string {
	verdict := "No"
	if r.IsDAG {
		verdict = "Yes"
	}
	return fmt.Sprintf("# Pipeline parsed successfully\n\n| Nodes | Edges | Is DAG |\n|---|---|---|\n| %d | %d | %s |\n", r.NumNodes, r.NumEdges, verdict)
}

// LintMarkdown formats a lint report.
func LintMarkdown(r lint.Report) string {
	if len(r.Issues) == 0 {
		return "# Lint\n\nNo issues found.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Lint\n\n%d errors, %d issues in total.\n\n", len(r.Errors()), len(r.Issues))
	for _, i := range r.Issues {
		fmt.Fprintf(&sb, "- **%s** %s\n", i.Severity, i.Message)
	}
	return sb.String()
}

// VariablesMarkdown lists the variables of a template text, one per line.
func VariablesMarkdown(vars []string) string {
	if len(vars) == 0 {
		return "No variables.\n"
	}
	var sb strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&sb, "- `%s`\n", v)
	}
	return sb.String()
}
