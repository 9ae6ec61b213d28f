package record

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestKindOf(t *testing.T) {
	var nilPtr *string
	s := "x"

	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"nil", nil, KindNull},
		{"nil pointer", nilPtr, KindNull},
		{"pointer", &s, KindString},
		{"bool", true, KindBool},
		{"string", "a", KindString},
		{"bytes", []byte("a"), KindString},
		{"int", 1, KindNumber},
		{"int64", int64(1), KindNumber},
		{"float", 1.5, KindNumber},
		{"json number", json.Number("3"), KindNumber},
		{"object", map[string]any{}, KindObject},
		{"typed object", map[string]string{}, KindObject},
		{"int keyed map", map[int]string{}, KindInvalid},
		{"array", []any{1}, KindArray},
		{"typed array", []string{"a"}, KindArray},
		{"func", func() {}, KindInvalid},
		{"chan", make(chan int), KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.value); got != tt.want {
				t.Errorf("KindOf(%T) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		if got, ok := String("a"); !ok || got != "a" {
			t.Errorf("String(\"a\") = %q, %v", got, ok)
		}
		if _, ok := String(1); ok {
			t.Error("String(1) ok = true, want false")
		}
	})

	t.Run("Bool does not coerce strings", func(t *testing.T) {
		if _, ok := Bool("true"); ok {
			t.Error("Bool(\"true\") ok = true, want false")
		}
		if got, ok := Bool(false); !ok || got {
			t.Errorf("Bool(false) = %v, %v", got, ok)
		}
	})

	t.Run("Number", func(t *testing.T) {
		if got, ok := Number(int64(7)); !ok || got != 7 {
			t.Errorf("Number(int64(7)) = %v, %v", got, ok)
		}
		if got, ok := Number(json.Number("0.5")); !ok || got != 0.5 {
			t.Errorf("Number(json.Number) = %v, %v", got, ok)
		}
		if _, ok := Number(math.NaN()); ok {
			t.Error("Number(NaN) ok = true, want false")
		}
		if _, ok := Number("1"); ok {
			t.Error("Number(\"1\") ok = true, want false")
		}
	})

	t.Run("Object converts typed maps", func(t *testing.T) {
		got, ok := Object(map[string]string{"a": "b"})
		if !ok {
			t.Fatal("Object() ok = false")
		}
		if !reflect.DeepEqual(got, map[string]any{"a": "b"}) {
			t.Errorf("Object() = %v", got)
		}
		if _, ok := Object([]any{}); ok {
			t.Error("Object([]any) ok = true, want false")
		}
	})

	t.Run("Strings", func(t *testing.T) {
		got, ok := Strings([]any{"a", "b"})
		if !ok || !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("Strings() = %v, %v", got, ok)
		}
		if _, ok := Strings([]any{"a", 1}); ok {
			t.Error("Strings(mixed) ok = true, want false")
		}
		if _, ok := Strings("a"); ok {
			t.Error("Strings(string) ok = true, want false")
		}
		empty, ok := Strings([]any{})
		if !ok || empty == nil || len(empty) != 0 {
			t.Errorf("Strings(empty) = %#v, %v", empty, ok)
		}
	})

	t.Run("Array rejects bytes", func(t *testing.T) {
		if _, ok := Array([]byte("abc")); ok {
			t.Error("Array([]byte) ok = true, want false")
		}
		got, ok := Array([]int{1, 2})
		if !ok || !reflect.DeepEqual(got, []any{1, 2}) {
			t.Errorf("Array([]int) = %v, %v", got, ok)
		}
	})
}

func TestCloneMap(t *testing.T) {
	src := map[string]any{
		"nested": map[string]any{"a": 1},
		"list":   []any{map[string]any{"b": 2}},
	}
	dst := CloneMap(src)

	dst["nested"].(map[string]any)["a"] = 100
	dst["list"].([]any)[0].(map[string]any)["b"] = 200

	if src["nested"].(map[string]any)["a"] != 1 {
		t.Error("CloneMap() shares nested map with source")
	}
	if src["list"].([]any)[0].(map[string]any)["b"] != 2 {
		t.Error("CloneMap() shares slice element with source")
	}
	if CloneMap(nil) != nil {
		t.Error("CloneMap(nil) != nil")
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"typed": map[string]string{"a": "b"},
		"yaml":  map[any]any{1: "one", "two": []string{"x"}},
	}
	want := map[string]any{
		"typed": map[string]any{"a": "b"},
		"yaml":  map[string]any{"1": "one", "two": []any{"x"}},
	}
	if got := Normalize(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %#v, want %#v", got, want)
	}
}
