package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"
)

func parseJSON(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	var root any
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return rootObject(JSON, root)
}

func marshalJSON(rec map[string]any) ([]byte, error) {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(b, '\n'), nil
}

// parseJSONC strips comments and trailing commas before decoding as JSON.
func parseJSONC(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	v, err := hujson.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSONC: %w", err)
	}
	v.Standardize()

	var root any
	if err := json.Unmarshal(v.Pack(), &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSONC: %w", err)
	}
	return rootObject(JSONC, root)
}

// marshalJSONC writes standard JSON formatted by hujson. Comments from the
// source document are not preserved.
func marshalJSONC(rec map[string]any) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONC: %w", err)
	}
	v, err := hujson.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONC: %w", err)
	}
	v.Format()
	return v.Pack(), nil
}
