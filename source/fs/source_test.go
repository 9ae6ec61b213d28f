package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/yacchi/omocfg/format"
	"github.com/yacchi/omocfg/source"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"config.yaml", "config.yaml"},
		{"~", home},
		{"~/config.yaml", filepath.Join(home, "config.yaml")},
		{"~someone/config.yaml", "~someone/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := expandTilde(tt.in)
			if err != nil {
				t.Fatalf("expandTilde() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("expandTilde(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandTilde_HomeError(t *testing.T) {
	orig := userHomeDir
	userHomeDir = func() (string, error) { return "", errors.New("no home") }
	t.Cleanup(func() { userHomeDir = orig })

	if _, err := expandTilde("~/x"); err == nil {
		t.Fatal("expandTilde() expected error")
	}
	s := New("~/x.json")
	if got := s.ResolvedPath(); got != "~/x.json" {
		t.Errorf("ResolvedPath() = %q, want unexpanded path", got)
	}
}

func TestSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	content := "configId: p1\nname: Dev\nagents:\n  oracle:\n    model: m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]any{
		"configId": "p1",
		"name":     "Dev",
		"agents":   map[string]any{"oracle": map[string]any{"model": "m"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestSource_LoadNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := New(path).Load(context.Background())
	if !errors.Is(err, source.ErrNotExist) {
		t.Fatalf("Load() error = %v, want ErrNotExist", err)
	}
}

func TestSource_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	_, err := New(bad).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to parse JSON") {
		t.Errorf("Load() error = %v, want parse error", err)
	}

	unknown := filepath.Join(dir, "config.ini")
	if err := os.WriteFile(unknown, []byte("a=1"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	_, err = New(unknown).Load(context.Background())
	var ufe *format.UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Errorf("Load() error = %v, want UnsupportedFormatError", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(bad).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load(canceled) error = %v", err)
	}
}

func TestSource_WithFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings")
	if err := os.WriteFile(path, []byte("name = \"Dev\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := New(path, WithFormat(format.TOML)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got["name"] != "Dev" {
		t.Errorf("Load() = %v", got)
	}
}

func TestSource_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "primary.json")
	alt := filepath.Join(dir, "alt.json")
	if err := os.WriteFile(alt, []byte(`{"name":"alt"}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s := New(primary, WithSearchPaths(alt))
	if got := s.Path(); got != primary {
		t.Fatalf("Path() = %q, want %q", got, primary)
	}
	if got := s.ResolvedPath(); got != primary {
		t.Fatalf("ResolvedPath() before Load = %q, want %q", got, primary)
	}

	rec, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec["name"] != "alt" {
		t.Errorf("Load() = %v", rec)
	}
	if got := s.ResolvedPath(); got != alt {
		t.Errorf("ResolvedPath() after Load = %q, want %q", got, alt)
	}

	if err := s.Save(context.Background(), map[string]any{"name": "saved"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(primary); !os.IsNotExist(err) {
		t.Errorf("primary path was written; Stat() error = %v", err)
	}
}

func TestSource_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "global.json")
	s := New(path, WithFileMode(0o600), WithDirMode(0o700))

	rec := map[string]any{
		"sisyphus_agent":  map[string]any{"disabled": true},
		"disabled_agents": []any{"oracle"},
	}
	if err := s.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("Load() = %v, want %v", got, rec)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("file mode = %o, want 600", perm)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temporary file left behind?)", len(entries))
	}
}

func TestSource_SaveMarshalError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.json")
	err := New(path).Save(context.Background(), map[string]any{"fn": func() {}})
	if err == nil {
		t.Fatal("Save() expected error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("file created despite marshal error")
	}
}

func TestSource_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "global.json")
	s := New(path)
	if err := s.Save(context.Background(), map[string]any{"schema": "v1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan map[string]any, 16)
	stop, err := s.Watch(ctx, func(rec map[string]any, err error) {
		if err == nil {
			changes <- rec
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer stop()

	if err := s.Save(context.Background(), map[string]any{"schema": "v2"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case rec := <-changes:
			if rec["schema"] == "v2" {
				return
			}
		case <-timeout:
			t.Fatal("Watch() did not observe the change")
		}
	}
}

func TestSource_WatchMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "global.json"))
	if _, err := s.Watch(context.Background(), func(map[string]any, error) {}); err == nil {
		t.Fatal("Watch() expected error for missing directory")
	}
}
