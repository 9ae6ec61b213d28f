package omocfg

import (
	"encoding/json"
	"fmt"

	"github.com/yacchi/omocfg/compat"
	"github.com/yacchi/omocfg/record"
)

// checkEncodable reports whether v can be persisted as a JSON document.
// Records are built from the typed fields directly, so value types inside
// opaque maps are kept; this only catches values no store can write, such as
// NaN, infinities, functions and channels.
func checkEncodable(v any) error {
	if _, err := json.Marshal(v); err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	return nil
}

// profileRecord builds the canonical record for profile content.
func profileRecord(c ProfileConfigContent) (map[string]any, error) {
	if err := checkEncodable(c); err != nil {
		return nil, err
	}
	rec := map[string]any{
		keyName.Canonical:      c.Name,
		keyIsApplied.Canonical: c.IsApplied,
		keyAgents.Canonical:    agentsRecord(c.Agents),
	}
	putObject(rec, keyOtherFields, c.OtherFields)
	return rec, nil
}

// globalRecord builds the canonical record for global content.
// Nil fields are omitted.
func globalRecord(c GlobalConfigContent) (map[string]any, error) {
	if err := checkEncodable(c); err != nil {
		return nil, err
	}
	rec := make(map[string]any)
	putString(rec, keySchema, c.Schema)
	if c.SisyphusAgent != nil {
		rec[keySisyphusAgent.Canonical] = c.SisyphusAgent.record()
	}
	putStrings(rec, keyDisabledAgents, c.DisabledAgents)
	putStrings(rec, keyDisabledMcps, c.DisabledMcps)
	putStrings(rec, keyDisabledHooks, c.DisabledHooks)
	putObject(rec, keyLSP, c.LSP)
	putObject(rec, keyExperimental, c.Experimental)
	putObject(rec, keyOtherFields, c.OtherFields)
	return rec, nil
}

func agentsRecord(agents map[string]AgentConfig) map[string]any {
	out := make(map[string]any, len(agents))
	for name, agent := range agents {
		out[name] = agent.record()
	}
	return out
}

// record builds the agent definition. Extra keys come first so a modelled
// field always wins over an Extra key of the same name.
func (a AgentConfig) record() map[string]any {
	rec := make(map[string]any, len(a.Extra))
	for k, v := range a.Extra {
		rec[k] = record.Clone(v)
	}
	putString(rec, keyAgentModel, a.Model)
	putString(rec, keyAgentVariant, a.Variant)
	putNumber(rec, keyAgentTemperature, a.Temperature)
	putNumber(rec, keyAgentTopP, a.TopP)
	putString(rec, keyAgentPrompt, a.Prompt)
	putString(rec, keyAgentPromptAppend, a.PromptAppend)
	putString(rec, keyAgentDescription, a.Description)
	putString(rec, keyAgentMode, a.Mode)
	putString(rec, keyAgentColor, a.Color)
	putBool(rec, keyAgentDisable, a.Disable)
	if a.Tools != nil {
		tools := make(map[string]any, len(a.Tools))
		for name, enabled := range a.Tools {
			tools[name] = enabled
		}
		rec[keyAgentTools.Canonical] = tools
	}
	putObject(rec, keyAgentPermission, a.Permission)
	return rec
}

func (s *SisyphusAgent) record() map[string]any {
	rec := make(map[string]any, len(sisyphusFields))
	putBool(rec, keySisyphusDisabled, s.Disabled)
	putBool(rec, keySisyphusDefaultBuilder, s.DefaultBuilderEnabled)
	putBool(rec, keySisyphusPlanner, s.PlannerEnabled)
	putBool(rec, keySisyphusReplacePlan, s.ReplacePlan)
	return rec
}

func putString(rec map[string]any, key compat.Key, v *string) {
	if v != nil {
		rec[key.Canonical] = *v
	}
}

func putBool(rec map[string]any, key compat.Key, v *bool) {
	if v != nil {
		rec[key.Canonical] = *v
	}
}

func putNumber(rec map[string]any, key compat.Key, v *float64) {
	if v != nil {
		rec[key.Canonical] = *v
	}
}

func putStrings(rec map[string]any, key compat.Key, v []string) {
	if v == nil {
		return
	}
	items := make([]any, len(v))
	for i, s := range v {
		items[i] = s
	}
	rec[key.Canonical] = items
}

func putObject(rec map[string]any, key compat.Key, v map[string]any) {
	if v != nil {
		rec[key.Canonical] = record.CloneMap(v)
	}
}
