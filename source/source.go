// Package source defines the storage collaborators that hand configuration
// records to the adapter and persist the records it produces.
//
// A Store deals only in records (map[string]any). Parsing and marshaling are
// delegated to the format package; conversion to typed configuration is done
// by the omocfg package. The helpers in this file join the two.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/yacchi/omocfg"
)

// ErrNotExist is returned (wrapped) when the underlying record does not exist.
var ErrNotExist = errors.New("record does not exist")

// NotExistError reports a missing record at a location such as a file path
// or an S3 URL. It matches ErrNotExist with errors.Is.
type NotExistError struct {
	Location string
	Err      error
}

// NewNotExistError creates a NotExistError for location.
func NewNotExistError(location string, err error) *NotExistError {
	return &NotExistError{Location: location, Err: err}
}

func (e *NotExistError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("record does not exist: %s", e.Location)
	}
	return fmt.Sprintf("record does not exist: %s: %v", e.Location, e.Err)
}

// Is reports whether target is ErrNotExist.
func (e *NotExistError) Is(target error) bool {
	return target == ErrNotExist
}

func (e *NotExistError) Unwrap() error {
	return e.Err
}

// Store loads and saves configuration records.
type Store interface {
	// Load reads the record. A missing record is reported with an error
	// matching ErrNotExist.
	Load(ctx context.Context) (map[string]any, error)

	// Save replaces the stored record with rec.
	Save(ctx context.Context, rec map[string]any) error
}

// LoadProfile loads a profile from s. A missing record yields an error
// matching ErrNotExist; any other record, however malformed, converts.
func LoadProfile(ctx context.Context, s Store) (omocfg.ProfileConfig, error) {
	rec, err := s.Load(ctx)
	if err != nil {
		return omocfg.ProfileConfig{}, err
	}
	return omocfg.FromRecord(rec), nil
}

// LoadGlobal loads the global configuration from s. A missing record yields
// the defaults so the singleton always exists for callers.
func LoadGlobal(ctx context.Context, s Store) (omocfg.GlobalConfig, error) {
	rec, err := s.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return omocfg.GlobalFromRecord(nil), nil
		}
		return omocfg.GlobalConfig{}, err
	}
	return omocfg.GlobalFromRecord(rec), nil
}

// SaveProfile writes profile content to s through a. If the content cannot
// be serialized the error is returned and s is left untouched, so a stored
// record is never replaced by the adapter's empty fallback.
func SaveProfile(ctx context.Context, s Store, a *omocfg.Adapter, content omocfg.ProfileConfigContent) error {
	rec, err := a.EncodeProfile(content)
	if err != nil {
		return err
	}
	return s.Save(ctx, rec)
}

// SaveGlobal writes global content to s through a. Like SaveProfile it does
// not save when serialization fails.
func SaveGlobal(ctx context.Context, s Store, a *omocfg.Adapter, content omocfg.GlobalConfigContent) error {
	rec, err := a.EncodeGlobal(content)
	if err != nil {
		return err
	}
	return s.Save(ctx, rec)
}
