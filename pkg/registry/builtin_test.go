package registry

import (
	"testing"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_ClosedSet(t *testing.T) {
	want := []string{
		domain.NodeTypeInput, domain.NodeTypeLLM, domain.NodeTypeOutput, domain.NodeTypeText,
		domain.NodeTypeMath, domain.NodeTypeAPICall, domain.NodeTypeFilter, domain.NodeTypeDelay,
		domain.NodeTypeLogger, domain.NodeTypeConcat, domain.NodeTypeSplit, domain.NodeTypeHTTP,
		domain.NodeTypeUppercase, domain.NodeTypeGeneric,
	}

	var got []string
	for _, d := range Builtin().Types() {
		got = append(got, d.Type)
	}
	assert.Equal(t, want, got)
}

// Every declared field of every type has a default once materialized.
func TestBuiltin_DefaultsAreComplete(t *testing.T) {
	r := Builtin()
	for _, def := range r.Types() {
		t.Run(def.Type, func(t *testing.T) {
			n := domain.NewNode(def.Type+"-abc", def.Type, domain.Position{})
			for k, v := range schema.Defaults(def.Fields, n.ID, n.Data) {
				n.Data[k] = v
			}
			assert.Empty(t, schema.Missing(def.Fields, n.Data))
			assert.NoError(t, schema.Validate(def.Fields, n.Data))
		})
	}
}

func TestBuiltin_ComputedNames(t *testing.T) {
	r := Builtin()

	input, err := r.Lookup(domain.NodeTypeInput)
	require.NoError(t, err)
	d := schema.Defaults(input.Fields, "customInput-7f3a", map[string]any{})
	assert.Equal(t, "input_7f3a", d["inputName"])
	assert.Equal(t, "Text", d["inputType"])

	output, err := r.Lookup(domain.NodeTypeOutput)
	require.NoError(t, err)
	d = schema.Defaults(output.Fields, "customOutput-9", map[string]any{})
	assert.Equal(t, "output_9", d["outputName"])
}

func TestBuiltin_TextHandlesFollowText(t *testing.T) {
	r := Builtin()
	n := domain.NewNode("text-1", domain.NodeTypeText, domain.Position{})

	// Empty text derives from the default template.
	handles, err := r.Handles(n)
	require.NoError(t, err)
	require.Len(t, handles, 2)
	assert.Equal(t, "text-1-var-input", handles[0].ID)
	assert.Equal(t, "text-1-output", handles[1].ID)

	n.Data["text"] = "Hello {{ name }}, you are {{age}}"
	handles, err = r.Handles(n)
	require.NoError(t, err)
	var ids []string
	for _, h := range handles {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"text-1-var-name", "text-1-var-age", "text-1-output"}, ids)

	// Same data, same handles.
	again, _ := r.Handles(n)
	assert.Equal(t, handles, again)

	size, err := r.Size(n)
	require.NoError(t, err)
	assert.Equal(t, 176.0, size.Height)
}

func TestBuiltin_StaticHandles(t *testing.T) {
	r := Builtin()
	tests := []struct {
		nodeType string
		targets  []string
		sources  []string
	}{
		{domain.NodeTypeInput, nil, []string{"value"}},
		{domain.NodeTypeOutput, []string{"value"}, nil},
		{domain.NodeTypeLLM, []string{"system", "prompt"}, []string{"response"}},
		{domain.NodeTypeMath, nil, []string{"result"}},
		{domain.NodeTypeFilter, []string{"in"}, []string{"true", "false"}},
		{domain.NodeTypeConcat, []string{"a", "b"}, []string{"out"}},
		{domain.NodeTypeSplit, []string{"text"}, []string{"first", "rest"}},
		{domain.NodeTypeHTTP, []string{"body"}, []string{"status", "response"}},
		{domain.NodeTypeUppercase, []string{"text"}, []string{"text"}},
	}

	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			handles, err := r.Handles(domain.NewNode("n", tt.nodeType, domain.Position{}))
			require.NoError(t, err)

			var targets, sources []string
			for _, h := range handles {
				if h.Kind == domain.HandleTarget {
					targets = append(targets, h.Name)
				} else {
					sources = append(sources, h.Name)
				}
			}
			assert.Equal(t, tt.targets, targets)
			assert.Equal(t, tt.sources, sources)
		})
	}
}

func TestBuiltin_LLMIsTaller(t *testing.T) {
	size, err := Builtin().Size(domain.NewNode("llm-1", domain.NodeTypeLLM, domain.Position{}))
	require.NoError(t, err)
	assert.Equal(t, 180.0, size.Height)
}
