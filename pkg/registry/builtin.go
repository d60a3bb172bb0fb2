package registry

import (
	"strings"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/schema"
	"github.com/aretw0/flowboard/pkg/template"
)

// TextDefault is the text a text node starts with, and the text used for derivation while empty.
const TextDefault = "{{input}}"

func in(name string) HandleSpec {
	return HandleSpec{Kind: domain.HandleTarget, Name: name, Position: domain.PositionLeft}
}

func out(name string) HandleSpec {
	return HandleSpec{Kind: domain.HandleSource, Name: name, Position: domain.PositionRight}
}

func (s HandleSpec) at(o domain.Offset) HandleSpec {
	s.Offset = o
	return s
}

func px(v float64) domain.Offset  { return domain.Offset{Pixels: v} }
func pct(v float64) domain.Offset { return domain.Offset{Percent: v} }

// renamePrefix derives "<to><suffix>" from a node id "<from><suffix>".
func renamePrefix(from, to string) schema.DefaultFunc {
	return func(nodeID string, _ map[string]any) any {
		return strings.Replace(nodeID, from, to, 1)
	}
}

// textOf returns the text used for derivation. Empty or non-string text falls back to TextDefault.
func textOf(data map[string]any) string {
	if s, ok := data["text"].(string); ok && s != "" {
		return s
	}
	return TextDefault
}

var methods = []any{"GET", "POST", "PUT", "DELETE"}

// Builtin returns a registry holding the closed set of node types shipped with flowboard.
func Builtin() *Registry {
	return NewRegistry().MustRegister(
		Definition{
			Type:  domain.NodeTypeInput,
			Title: "Input",
			Fields: []schema.Field{
				{Key: "inputName", Label: "Name", Kind: schema.KindText,
					DefaultFunc: renamePrefix(domain.NodeTypeInput+"-", "input_")},
				{Key: "inputType", Label: "Type", Kind: schema.KindSelect,
					Options: []any{"Text", "File"}, Default: "Text"},
			},
			Handles: []HandleSpec{out("value")},
		},
		Definition{
			Type:  domain.NodeTypeLLM,
			Title: "LLM",
			Fields: []schema.Field{
				{Key: "system", Label: "System prompt", Kind: schema.KindTextarea, Default: ""},
				{Key: "prompt", Label: "User prompt", Kind: schema.KindTextarea, Default: ""},
			},
			Handles: []HandleSpec{
				in("system").at(px(70)),
				in("prompt").at(px(130)),
				out("response").at(px(100)),
			},
			MinHeight: 180,
		},
		Definition{
			Type:  domain.NodeTypeOutput,
			Title: "Output",
			Fields: []schema.Field{
				{Key: "outputName", Label: "Name", Kind: schema.KindText,
					DefaultFunc: renamePrefix(domain.NodeTypeOutput+"-", "output_")},
				{Key: "outputType", Label: "Type", Kind: schema.KindSelect,
					Options: []any{"Text", "Image"}, Default: "Text"},
			},
			Handles: []HandleSpec{in("value")},
		},
		Definition{
			Type:        domain.NodeTypeText,
			Title:       "Text",
			Description: "Every {{ variable }} in the text becomes an input.",
			Fields: []schema.Field{
				{Key: "text", Label: "Text", Kind: schema.KindTextarea, Default: TextDefault},
			},
			Derive: func(nodeID string, data map[string]any) []domain.Handle {
				return template.Handles(nodeID, textOf(data))
			},
			Measure: func(data map[string]any) template.Size {
				return template.Measure(textOf(data))
			},
		},
		Definition{
			Type:  domain.NodeTypeMath,
			Title: "Math",
			Fields: []schema.Field{
				{Key: "operation", Label: "Operation", Kind: schema.KindSelect,
					Options: []any{"add", "subtract", "multiply", "divide"}, Default: "add"},
				{Key: "a", Label: "A", Kind: schema.KindNumber, Default: 0},
				{Key: "b", Label: "B", Kind: schema.KindNumber, Default: 0},
			},
			Handles: []HandleSpec{out("result")},
		},
		Definition{
			Type:  domain.NodeTypeAPICall,
			Title: "API Call",
			Fields: []schema.Field{
				{Key: "method", Label: "Method", Kind: schema.KindSelect, Options: methods, Default: "GET"},
				{Key: "url", Label: "URL", Kind: schema.KindText, Placeholder: "https://api...", Default: ""},
				{Key: "body", Label: "Body", Kind: schema.KindTextarea, Placeholder: `{ "key": "value" }`,
					Default: "", Constraints: schema.Constraints{Rows: 2}},
			},
			Handles: []HandleSpec{in("in"), out("out")},
		},
		Definition{
			Type:  domain.NodeTypeFilter,
			Title: "Filter",
			Fields: []schema.Field{
				{Key: "expression", Label: "Expression", Kind: schema.KindText,
					Placeholder: "e.g. value > 10", Default: ""},
			},
			Handles: []HandleSpec{
				in("in"),
				out("true").at(pct(40)),
				out("false").at(pct(70)),
			},
		},
		Definition{
			Type:  domain.NodeTypeDelay,
			Title: "Delay",
			Fields: []schema.Field{
				{Key: "ms", Label: "Milliseconds", Kind: schema.KindNumber, Default: 1000,
					Constraints: schema.Constraints{Min: schema.Float(0)}},
			},
			Handles: []HandleSpec{in("in"), out("out")},
		},
		Definition{
			Type:  domain.NodeTypeLogger,
			Title: "Logger",
			Fields: []schema.Field{
				{Key: "level", Label: "Level", Kind: schema.KindSelect,
					Options: []any{"info", "warn", "error"}, Default: "info"},
				{Key: "message", Label: "Message", Kind: schema.KindTextarea, Placeholder: "Log message",
					Default: "", Constraints: schema.Constraints{Rows: 2}},
			},
			Handles: []HandleSpec{in("in"), out("out")},
		},
		Definition{
			Type:  domain.NodeTypeConcat,
			Title: "Concat",
			Fields: []schema.Field{
				{Key: "separator", Label: "Separator", Kind: schema.KindText, Default: " "},
			},
			Handles: []HandleSpec{
				in("a").at(pct(35)),
				in("b").at(pct(65)),
				out("out"),
			},
		},
		Definition{
			Type:  domain.NodeTypeSplit,
			Title: "Split",
			Fields: []schema.Field{
				{Key: "separator", Label: "Separator", Kind: schema.KindText, Default: ","},
			},
			Handles: []HandleSpec{
				in("text"),
				out("first").at(pct(55)),
				out("rest").at(pct(80)),
			},
		},
		Definition{
			Type:  domain.NodeTypeHTTP,
			Title: "HTTP",
			Fields: []schema.Field{
				{Key: "url", Label: "URL", Kind: schema.KindText, Default: "https://example.com"},
				{Key: "method", Label: "Method", Kind: schema.KindSelect, Options: methods, Default: "GET"},
				{Key: "headers", Label: "Headers (JSON)", Kind: schema.KindTextarea, Default: ""},
			},
			Handles: []HandleSpec{
				in("body"),
				out("status").at(pct(55)),
				out("response").at(pct(80)),
			},
		},
		Definition{
			Type:  domain.NodeTypeUppercase,
			Title: "Uppercase",
			Fields: []schema.Field{
				{Key: "preserveNonAlpha", Label: "Preserve non-letters", Kind: schema.KindCheckbox, Default: true},
			},
			Handles: []HandleSpec{in("text"), out("text")},
		},
		Definition{
			Type:        domain.NodeTypeGeneric,
			Title:       "Generic",
			Description: "A labelled pass-through step.",
			Fields: []schema.Field{
				{Key: "label", Label: "Label", Kind: schema.KindText, Default: "Step"},
				{Key: "notes", Label: "Notes", Kind: schema.KindTextarea, Default: ""},
			},
			Handles: []HandleSpec{in("in"), out("out")},
		},
	)
}
