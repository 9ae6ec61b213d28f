// Package compat resolves logical configuration fields that may be stored
// under either of two key spellings.
//
// Every lookup names a Key pair: the canonical (snake_case) spelling that new
// writes use, and the legacy (camelCase) spelling older records may still
// carry. The canonical key is tried first; a key whose value has the wrong
// type is treated exactly like a missing key, so the lookup continues with
// the legacy spelling and finally falls back to the caller's default.
//
// None of the functions in this package fail or panic. A nil record is a
// valid input and simply has no keys.
package compat

import "github.com/yacchi/omocfg/record"

// Key is a pair of spellings for one logical field.
type Key struct {
	// Canonical is the spelling written by new records (e.g. "config_id").
	Canonical string
	// Legacy is the historical alias accepted on read (e.g. "configId").
	// It may equal Canonical for fields that never had a second spelling.
	Legacy string
}

// K creates a Key from its canonical and legacy spellings.
func K(canonical, legacy string) Key {
	return Key{Canonical: canonical, Legacy: legacy}
}

// Same creates a Key for a field with a single spelling.
func Same(key string) Key {
	return Key{Canonical: key, Legacy: key}
}

// Names returns the spellings in lookup order, without duplicates.
func (k Key) Names() []string {
	if k.Legacy == "" || k.Legacy == k.Canonical {
		return []string{k.Canonical}
	}
	return []string{k.Canonical, k.Legacy}
}

// Has reports whether name is one of the key's spellings.
func (k Key) Has(name string) bool {
	return name == k.Canonical || (k.Legacy != "" && name == k.Legacy)
}

// resolve returns the first value under key's spellings that extract accepts.
func resolve[T any](rec map[string]any, key Key, extract func(any) (T, bool)) (T, bool) {
	for _, name := range key.Names() {
		v, ok := rec[name]
		if !ok {
			continue
		}
		if typed, ok := extract(v); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// Lookup returns the raw value stored under the first present spelling of key.
// Unlike the typed resolvers, any present value (including null) is returned.
func Lookup(rec map[string]any, key Key) (any, bool) {
	for _, name := range key.Names() {
		if v, ok := rec[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupString returns the first string-typed value under key.
func LookupString(rec map[string]any, key Key) (string, bool) {
	return resolve(rec, key, record.String)
}

// String returns the first string-typed value under key, or def.
func String(rec map[string]any, key Key, def string) string {
	if s, ok := LookupString(rec, key); ok {
		return s
	}
	return def
}

// OptionalString returns the first string-typed value under key,
// or nil when neither spelling yields a string.
func OptionalString(rec map[string]any, key Key) *string {
	if s, ok := LookupString(rec, key); ok {
		return &s
	}
	return nil
}

// LookupBool returns the first bool-typed value under key.
func LookupBool(rec map[string]any, key Key) (bool, bool) {
	return resolve(rec, key, record.Bool)
}

// Bool returns the first bool-typed value under key, or def.
func Bool(rec map[string]any, key Key, def bool) bool {
	if b, ok := LookupBool(rec, key); ok {
		return b
	}
	return def
}

// OptionalBool returns the first bool-typed value under key, or nil.
func OptionalBool(rec map[string]any, key Key) *bool {
	if b, ok := LookupBool(rec, key); ok {
		return &b
	}
	return nil
}

// OptionalNumber returns the first finite numeric value under key, or nil.
func OptionalNumber(rec map[string]any, key Key) *float64 {
	if f, ok := resolve(rec, key, record.Number); ok {
		return &f
	}
	return nil
}

// Object returns the first object-shaped value under key.
// The returned map is not copied.
func Object(rec map[string]any, key Key) (map[string]any, bool) {
	return resolve(rec, key, record.Object)
}

// Strings returns the first value under key that is a sequence of strings.
func Strings(rec map[string]any, key Key) ([]string, bool) {
	return resolve(rec, key, record.Strings)
}
