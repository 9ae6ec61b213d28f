package format

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/yacchi/omocfg/record"
)

func parseTOML(data []byte) (map[string]any, error) {
	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return rootObject(TOML, record.Normalize(tomlScalars(root)))
}

// tomlScalars replaces TOML date/time values with their string forms so that
// records stay within the JSON value kinds.
func tomlScalars(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = tomlScalars(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = tomlScalars(item)
		}
		return val
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return fmt.Sprint(val)
	default:
		return v
	}
}

// marshalTOML writes rec as TOML. Null values cannot be represented and are
// reported as errors by the encoder.
func marshalTOML(rec map[string]any) ([]byte, error) {
	b, err := toml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TOML: %w", err)
	}
	return b, nil
}
