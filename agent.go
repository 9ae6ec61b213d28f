package omocfg

import (
	"encoding/json"

	"github.com/yacchi/omocfg/compat"
	"github.com/yacchi/omocfg/record"
)

// agentFromValue parses a single agent definition. A value that is not an
// object yields the zero AgentConfig; malformed fields are dropped one at a
// time.
func agentFromValue(v any) AgentConfig {
	rec, ok := record.Object(v)
	if !ok {
		return AgentConfig{}
	}

	agent := AgentConfig{
		Model:        compat.OptionalString(rec, keyAgentModel),
		Variant:      compat.OptionalString(rec, keyAgentVariant),
		Temperature:  compat.OptionalNumber(rec, keyAgentTemperature),
		TopP:         compat.OptionalNumber(rec, keyAgentTopP),
		Prompt:       compat.OptionalString(rec, keyAgentPrompt),
		PromptAppend: compat.OptionalString(rec, keyAgentPromptAppend),
		Description:  compat.OptionalString(rec, keyAgentDescription),
		Mode:         compat.OptionalString(rec, keyAgentMode),
		Color:        compat.OptionalString(rec, keyAgentColor),
		Disable:      compat.OptionalBool(rec, keyAgentDisable),
	}

	if tools, ok := compat.Object(rec, keyAgentTools); ok {
		agent.Tools = make(map[string]bool, len(tools))
		for name, enabled := range tools {
			if b, ok := record.Bool(enabled); ok {
				agent.Tools[name] = b
			}
		}
	}
	if perm, ok := compat.Object(rec, keyAgentPermission); ok {
		agent.Permission = record.CloneMap(perm)
	}

	for k, v := range rec {
		if modelled(k, agentKeys) {
			continue
		}
		if agent.Extra == nil {
			agent.Extra = make(map[string]any)
		}
		agent.Extra[k] = record.Clone(v)
	}

	return agent
}

// agentsFromValue parses the agents mapping of a profile.
func agentsFromValue(v any) map[string]AgentConfig {
	agents := make(map[string]AgentConfig)
	rec, ok := record.Object(v)
	if !ok {
		return agents
	}
	for name, def := range rec {
		agents[name] = agentFromValue(def)
	}
	return agents
}

// MarshalJSON writes the agent definition record, so Extra keys appear next
// to the modelled fields. A modelled field always wins over an Extra key of
// the same name.
func (a AgentConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.record())
}
