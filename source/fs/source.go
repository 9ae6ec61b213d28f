// Package fs provides a file-backed configuration record store.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/yacchi/omocfg/format"
	"github.com/yacchi/omocfg/source"
)

var (
	userHomeDir = os.UserHomeDir
	osReadFile  = os.ReadFile
)

// Default permission modes.
const (
	DefaultFileMode = 0644
	DefaultDirMode  = 0755
)

// Source loads and saves a configuration record from/to a file.
// The document format is detected from the file extension unless set with
// WithFormat.
type Source struct {
	path        string
	searchPaths []string
	format      format.Format
	fileMode    os.FileMode
	dirMode     os.FileMode

	mu           sync.Mutex
	resolvedPath string // cached path after resolution
}

// Ensure Source implements the source.Store interface.
var _ source.Store = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithFormat sets the document format instead of detecting it from the
// file extension.
func WithFormat(f format.Format) Option {
	return func(s *Source) {
		s.format = f
	}
}

// WithFileMode sets the file permission mode used when saving.
// Default is 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.fileMode = mode
	}
}

// WithDirMode sets the directory permission mode used when creating parent directories.
// Default is 0755.
func WithDirMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.dirMode = mode
	}
}

// WithSearchPaths adds fallback paths. Load uses the first existing file,
// primary path first; Save writes to the file Load used, or the primary path.
func WithSearchPaths(paths ...string) Option {
	return func(s *Source) {
		s.searchPaths = append(s.searchPaths, paths...)
	}
}

// New creates a store backed by the file at path. Tilde (~) expansion is
// supported.
//
// Example:
//
//	src := fs.New("~/.config/opencode/oh-my-opencode.json")
//	src := fs.New("profiles/dev.yaml", fs.WithFileMode(0600))
//	src := fs.New("settings", fs.WithFormat(format.TOML))
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:     path,
		fileMode: DefaultFileMode,
		dirMode:  DefaultDirMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the primary path given to New.
func (s *Source) Path() string {
	return s.path
}

// Format returns the document format used for the resolved path.
func (s *Source) Format() (format.Format, error) {
	if s.format != "" {
		return s.format, nil
	}
	return format.FromPath(s.ResolvedPath())
}

// Load implements the source.Store interface.
// A missing file is reported with an error matching source.ErrNotExist.
func (s *Source) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolvedPath, originalPath, err := s.resolvePath()
	if err != nil {
		return nil, err
	}

	data, err := osReadFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, source.NewNotExistError(originalPath, err)
		}
		return nil, fmt.Errorf("failed to read file %q: %w", originalPath, err)
	}

	s.mu.Lock()
	s.resolvedPath = resolvedPath
	s.mu.Unlock()

	f, err := s.Format()
	if err != nil {
		return nil, err
	}
	rec, err := format.Parse(f, data)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", originalPath, err)
	}
	return rec, nil
}

// Save implements the source.Store interface.
//
// The write is atomic: data goes to a temporary file in the same directory
// which is then renamed over the target while an exclusive flock is held on
// the target. Parent directories are created as needed.
func (s *Source) Save(ctx context.Context, rec map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	targetPath := s.ResolvedPath()
	f, err := s.Format()
	if err != nil {
		return err
	}
	data, err := format.Marshal(f, rec)
	if err != nil {
		return fmt.Errorf("file %q: %w", targetPath, err)
	}

	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	lockFile, err := os.OpenFile(targetPath, os.O_RDWR|os.O_CREATE, s.fileMode)
	if err != nil {
		return fmt.Errorf("failed to open file %q for locking: %w", targetPath, err)
	}
	defer lockFile.Close()

	if err := flockExclusive(int(lockFile.Fd())); err != nil {
		if !isLockNotSupportedError(err) {
			return fmt.Errorf("failed to acquire lock on %q: %w", targetPath, err)
		}
	} else {
		defer flockUnlock(int(lockFile.Fd()))
	}

	tmpFile, err := os.CreateTemp(dir, ".omocfg-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, s.fileMode); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("failed to rename temporary file to %q: %w", targetPath, err)
	}

	success = true
	return nil
}

// ResolvedPath returns the file path in use: the file found by the last
// Load, or the expanded primary path.
func (s *Source) ResolvedPath() string {
	s.mu.Lock()
	resolved := s.resolvedPath
	s.mu.Unlock()
	if resolved != "" {
		return resolved
	}
	expanded, err := expandTilde(s.path)
	if err != nil {
		return s.path
	}
	return expanded
}

// resolvePath finds the first existing file among the primary and search
// paths. Returns (expandedPath, originalPath, error); when no file exists the
// primary path is returned.
func (s *Source) resolvePath() (expanded string, original string, err error) {
	allPaths := make([]string, 0, 1+len(s.searchPaths))
	allPaths = append(allPaths, s.path)
	allPaths = append(allPaths, s.searchPaths...)

	for _, p := range allPaths {
		expanded, err := expandTilde(p)
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(expanded); statErr == nil {
			return expanded, p, nil
		}
	}

	expanded, err = expandTilde(s.path)
	if err != nil {
		return "", s.path, fmt.Errorf("failed to expand path %q: %w", s.path, err)
	}
	return expanded, s.path, nil
}

// expandTilde expands "~" and "~/path". Other forms are returned as-is.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand home directory: %w", err)
	}

	if len(path) == 1 {
		return homeDir, nil
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ChangeFunc receives the reloaded record after the file changed, or the
// error from reloading or watching.
type ChangeFunc func(rec map[string]any, err error)

// Watch reloads the record whenever the file is written, created or renamed
// and passes the result to fn. The parent directory is watched so atomic
// saves (temp file + rename) are observed. Watching stops when ctx is done
// or the returned stop function is called.
func (s *Source) Watch(ctx context.Context, fn ChangeFunc) (stop func() error, err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	path := s.ResolvedPath()
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}
	filename := filepath.Base(path)

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					fn(s.Load(ctx))
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				fn(nil, err)
			case <-ctx.Done():
				w.Close()
				return
			}
		}
	}()

	var once sync.Once
	var closeErr error
	stop = func() error {
		once.Do(func() { closeErr = w.Close() })
		return closeErr
	}
	return stop, nil
}
