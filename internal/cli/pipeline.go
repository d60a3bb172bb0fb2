package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/flowboard/internal/adapters/file"
	"github.com/aretw0/flowboard/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ReadPipeline loads a pipeline file. Files ending in .yaml or .yml are read
// as YAML, anything else as the JSON snapshot format.
func ReadPipeline(path string) (domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Graph{}, err
	}
	return DecodePipeline(path, data)
}

// DecodePipeline parses data using the format implied by name.
func DecodePipeline(name string, data []byte) (domain.Graph, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		// Round-trip through JSON so numbers decode as float64 like everywhere else.
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.Graph{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return domain.Graph{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		data = raw
	}
	g, err := file.Decode(data)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return g, nil
}
