// Package format parses and marshals configuration records in the document
// formats a storage collaborator may hand over.
//
// Every parser returns the canonical record shape (map[string]any with nested
// map[string]any and []any). The root value must be an object; empty input is
// treated as an empty object.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a document format.
type Format string

const (
	// JSON is standard JSON (encoding/json).
	JSON Format = "json"
	// JSONC is JSON with comments and trailing commas (github.com/tailscale/hujson).
	JSONC Format = "jsonc"
	// YAML is YAML 1.2 (gopkg.in/yaml.v3).
	YAML Format = "yaml"
	// TOML is TOML v1 (github.com/pelletier/go-toml/v2).
	TOML Format = "toml"
)

// UnsupportedFormatError is returned for unknown formats or file extensions.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q", e.Format)
}

// Parse parses data in format f into a record.
func Parse(f Format, data []byte) (map[string]any, error) {
	switch f {
	case JSON:
		return parseJSON(data)
	case JSONC:
		return parseJSONC(data)
	case YAML:
		return parseYAML(data)
	case TOML:
		return parseTOML(data)
	default:
		return nil, &UnsupportedFormatError{Format: string(f)}
	}
}

// Marshal serializes rec in format f.
func Marshal(f Format, rec map[string]any) ([]byte, error) {
	if rec == nil {
		rec = map[string]any{}
	}
	switch f {
	case JSON:
		return marshalJSON(rec)
	case JSONC:
		return marshalJSONC(rec)
	case YAML:
		return marshalYAML(rec)
	case TOML:
		return marshalTOML(rec)
	default:
		return nil, &UnsupportedFormatError{Format: string(f)}
	}
}

// FromPath detects the format from a file extension.
//
// Example:
//
//	f, err := format.FromPath("~/.config/opencode/oh-my-opencode.jsonc") // JSONC
func FromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return JSON, nil
	case ".jsonc", ".json5":
		return JSONC, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", &UnsupportedFormatError{Format: ext}
	}
}

// ParseName parses a format name such as "yaml" or "yml".
func ParseName(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, JSONC, YAML, TOML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", &UnsupportedFormatError{Format: s}
	}
}

// rootObject checks that a decoded document is an object and normalises it.
func rootObject(f Format, root any) (map[string]any, error) {
	if root == nil {
		return map[string]any{}, nil
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to parse %s: root must be an object, got %T", strings.ToUpper(string(f)), root)
	}
	return obj, nil
}
