// Package bytes provides a configuration record store backed by a byte slice.
package bytes

import (
	"context"
	"sync"

	"github.com/yacchi/omocfg/format"
	"github.com/yacchi/omocfg/source"
)

// Source holds an encoded document in memory.
// Save replaces the held document with the newly marshaled record.
type Source struct {
	mu     sync.RWMutex
	data   []byte
	format format.Format
}

// Ensure Source implements the source.Store interface.
var _ source.Store = (*Source)(nil)

// New creates a store holding data encoded in format f.
//
// Example:
//
//	src := bytes.New([]byte("name: Dev\n"), format.YAML)
func New(data []byte, f format.Format) *Source {
	return &Source{
		data:   clone(data),
		format: f,
	}
}

// FromString creates a store from a string.
//
// Example:
//
//	src := bytes.FromString(`{"name": "Dev"}`, format.JSON)
func FromString(data string, f format.Format) *Source {
	return New([]byte(data), f)
}

// Format returns the document format.
func (s *Source) Format() format.Format {
	return s.format
}

// Bytes returns a copy of the held document.
func (s *Source) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.data)
}

// Load implements the source.Store interface. An empty document loads as an
// empty record; it is never reported as missing.
func (s *Source) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return format.Parse(s.format, s.data)
}

// Save implements the source.Store interface.
func (s *Source) Save(ctx context.Context, rec map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := format.Marshal(s.format, rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func clone(data []byte) []byte {
	result := make([]byte, len(data))
	copy(result, data)
	return result
}
