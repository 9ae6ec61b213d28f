package omocfg

import (
	"fmt"
	"log/slog"

	"github.com/yacchi/omocfg/compat"
	"github.com/yacchi/omocfg/merge"
	"github.com/yacchi/omocfg/record"
)

// EntityKind names the configuration entity a diagnostic refers to.
type EntityKind string

const (
	// EntityProfile is an agents profile.
	EntityProfile EntityKind = "oh-my-opencode config"
	// EntityGlobal is the global configuration.
	EntityGlobal EntityKind = "oh-my-opencode global config"
)

// Diagnostic describes a write-path serialization failure.
type Diagnostic struct {
	Entity EntityKind
	Err    error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("failed to serialize %s content: %v", d.Entity, d.Err)
}

// DiagnosticHandler receives write-path diagnostics.
type DiagnosticHandler func(Diagnostic)

// LogDiagnostics returns a handler that logs diagnostics to logger.
// A nil logger uses slog.Default() at the time of each call.
func LogDiagnostics(logger *slog.Logger) DiagnosticHandler {
	return func(d Diagnostic) {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		l.Warn("failed to serialize config record",
			"entity", string(d.Entity),
			"error", d.Err,
		)
	}
}

// Adapter converts between records and typed configuration.
// The zero value is not usable; create one with New.
type Adapter struct {
	diagnostics DiagnosticHandler
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDiagnosticHandler sets the handler for write-path diagnostics.
// Pass nil to discard diagnostics.
func WithDiagnosticHandler(h DiagnosticHandler) Option {
	return func(a *Adapter) {
		a.diagnostics = h
	}
}

// WithLogger reports write-path diagnostics through logger.
func WithLogger(logger *slog.Logger) Option {
	return WithDiagnosticHandler(LogDiagnostics(logger))
}

// New creates an Adapter. By default diagnostics are logged through
// slog.Default().
//
// Example:
//
//	a := omocfg.New(omocfg.WithLogger(logger))
//	rec := a.GlobalToRecord(content)
func New(opts ...Option) *Adapter {
	a := &Adapter{
		diagnostics: LogDiagnostics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

var defaultAdapter = New()

// FromRecord converts a storage record into a ProfileConfig.
// It never fails: missing or malformed fields take their defaults.
func (a *Adapter) FromRecord(rec map[string]any) ProfileConfig {
	return FromRecord(rec)
}

// GlobalFromRecord converts a storage record into a GlobalConfig.
func (a *Adapter) GlobalFromRecord(rec map[string]any) GlobalConfig {
	return GlobalFromRecord(rec)
}

// ToRecord converts profile content into a record with canonical keys.
// On serialization failure the diagnostic handler is called and an empty
// record is returned.
func (a *Adapter) ToRecord(content ProfileConfigContent) map[string]any {
	rec, err := a.EncodeProfile(content)
	if err != nil {
		return map[string]any{}
	}
	return rec
}

// GlobalToRecord converts global content into a record with canonical keys.
// Absent optional fields are omitted. On serialization failure the diagnostic
// handler is called and an empty record is returned.
func (a *Adapter) GlobalToRecord(content GlobalConfigContent) map[string]any {
	rec, err := a.EncodeGlobal(content)
	if err != nil {
		return map[string]any{}
	}
	return rec
}

// EncodeProfile is ToRecord for callers that persist the result: a
// serialization failure is reported to the diagnostic handler and also
// returned, with a nil record.
func (a *Adapter) EncodeProfile(content ProfileConfigContent) (map[string]any, error) {
	if content.Agents == nil {
		content.Agents = map[string]AgentConfig{}
	}
	rec, err := profileRecord(content)
	if err != nil {
		return nil, a.report(EntityProfile, err)
	}
	return rec, nil
}

// EncodeGlobal is GlobalToRecord with the serialization failure returned.
func (a *Adapter) EncodeGlobal(content GlobalConfigContent) (map[string]any, error) {
	rec, err := globalRecord(content)
	if err != nil {
		return nil, a.report(EntityGlobal, err)
	}
	return rec, nil
}

func (a *Adapter) report(entity EntityKind, err error) error {
	if a.diagnostics != nil {
		a.diagnostics(Diagnostic{Entity: entity, Err: err})
	}
	return fmt.Errorf("failed to serialize %s content: %w", entity, err)
}

// FromRecord converts a storage record into a ProfileConfig.
// It never fails: missing or malformed fields take their defaults.
func FromRecord(rec map[string]any) ProfileConfig {
	agents, _ := compat.Lookup(rec, keyAgents)

	cfg := ProfileConfig{
		ID:        compat.String(rec, keyConfigID, ""),
		Name:      compat.String(rec, keyName, DefaultProfileName),
		IsApplied: compat.Bool(rec, keyIsApplied, false),
		Agents:    agentsFromValue(agents),
		CreatedAt: compat.OptionalString(rec, keyCreatedAt),
		UpdatedAt: compat.OptionalString(rec, keyUpdatedAt),
	}
	if other, ok := compat.Object(rec, keyOtherFields); ok {
		cfg.OtherFields = record.CloneMap(other)
	}
	return cfg
}

// GlobalFromRecord converts a storage record into a GlobalConfig.
// The identifier defaults to GlobalConfigID. It never fails.
func GlobalFromRecord(rec map[string]any) GlobalConfig {
	cfg := GlobalConfig{
		ID:            compat.String(rec, keyConfigID, GlobalConfigID),
		Schema:        compat.OptionalString(rec, keySchema),
		SisyphusAgent: sisyphusFromRecord(rec),
		UpdatedAt:     compat.OptionalString(rec, keyUpdatedAt),
	}
	if v, ok := compat.Strings(rec, keyDisabledAgents); ok {
		cfg.DisabledAgents = v
	}
	if v, ok := compat.Strings(rec, keyDisabledMcps); ok {
		cfg.DisabledMcps = v
	}
	if v, ok := compat.Strings(rec, keyDisabledHooks); ok {
		cfg.DisabledHooks = v
	}
	if v, ok := compat.Object(rec, keyLSP); ok {
		cfg.LSP = record.CloneMap(v)
	}
	if v, ok := compat.Object(rec, keyExperimental); ok {
		cfg.Experimental = record.CloneMap(v)
	}
	if v, ok := compat.Object(rec, keyOtherFields); ok {
		cfg.OtherFields = record.CloneMap(v)
	}
	return cfg
}

// ToRecord converts profile content into a record using the default adapter,
// which logs diagnostics through slog.Default().
func ToRecord(content ProfileConfigContent) map[string]any {
	return defaultAdapter.ToRecord(content)
}

// GlobalToRecord converts global content into a record using the default
// adapter.
func GlobalToRecord(content GlobalConfigContent) map[string]any {
	return defaultAdapter.GlobalToRecord(content)
}

// sisyphusFromRecord resolves the sisyphus agent settings. When both key
// spellings hold an object, the two are reconciled field by field with the
// canonical object winning; when only one does, it is used as-is. A value
// that is not an object counts as absent.
func sisyphusFromRecord(rec map[string]any) *SisyphusAgent {
	canonical, hasCanonical := record.Object(rec[keySisyphusAgent.Canonical])
	legacy, hasLegacy := record.Object(rec[keySisyphusAgent.Legacy])

	var src map[string]any
	switch {
	case hasCanonical && hasLegacy:
		src = merge.Fields(canonical, legacy, sisyphusFields)
		if src == nil {
			return nil
		}
	case hasCanonical:
		src = canonical
	case hasLegacy:
		src = legacy
	default:
		return nil
	}

	return &SisyphusAgent{
		Disabled:              compat.OptionalBool(src, keySisyphusDisabled),
		DefaultBuilderEnabled: compat.OptionalBool(src, keySisyphusDefaultBuilder),
		PlannerEnabled:        compat.OptionalBool(src, keySisyphusPlanner),
		ReplacePlan:           compat.OptionalBool(src, keySisyphusReplacePlan),
	}
}
