package format

import (
	"bytes"
	"fmt"

	"github.com/yacchi/omocfg/record"
	"gopkg.in/yaml.v3"
)

func parseYAML(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return rootObject(YAML, record.Normalize(root))
}

func marshalYAML(rec map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}
