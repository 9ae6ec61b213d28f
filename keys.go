package omocfg

import (
	"github.com/yacchi/omocfg/compat"
	"github.com/yacchi/omocfg/merge"
)

// Record keys. Each pair is (canonical, legacy); only canonical keys are
// ever written.
var (
	keyConfigID    = compat.K("config_id", "configId")
	keyName        = compat.Same("name")
	keyIsApplied   = compat.K("is_applied", "isApplied")
	keyAgents      = compat.Same("agents")
	keyOtherFields = compat.K("other_fields", "otherFields")
	keyCreatedAt   = compat.K("created_at", "createdAt")
	keyUpdatedAt   = compat.K("updated_at", "updatedAt")

	keySchema         = compat.Same("schema")
	keySisyphusAgent  = compat.K("sisyphus_agent", "sisyphusAgent")
	keyDisabledAgents = compat.K("disabled_agents", "disabledAgents")
	keyDisabledMcps   = compat.K("disabled_mcps", "disabledMcps")
	keyDisabledHooks  = compat.K("disabled_hooks", "disabledHooks")
	keyLSP            = compat.Same("lsp")
	keyExperimental   = compat.Same("experimental")
)

// Sisyphus agent keys.
var (
	keySisyphusDisabled       = compat.Same("disabled")
	keySisyphusDefaultBuilder = compat.K("default_builder_enabled", "defaultBuilderEnabled")
	keySisyphusPlanner        = compat.K("planner_enabled", "plannerEnabled")
	keySisyphusReplacePlan    = compat.K("replace_plan", "replacePlan")

	sisyphusFields = []merge.Field{
		fieldOf(keySisyphusDisabled),
		fieldOf(keySisyphusDefaultBuilder),
		fieldOf(keySisyphusPlanner),
		fieldOf(keySisyphusReplacePlan),
	}
)

// Agent definition keys.
var (
	keyAgentModel        = compat.Same("model")
	keyAgentVariant      = compat.Same("variant")
	keyAgentTemperature  = compat.Same("temperature")
	keyAgentTopP         = compat.K("top_p", "topP")
	keyAgentPrompt       = compat.Same("prompt")
	keyAgentPromptAppend = compat.K("prompt_append", "promptAppend")
	keyAgentDescription  = compat.Same("description")
	keyAgentMode         = compat.Same("mode")
	keyAgentColor        = compat.Same("color")
	keyAgentDisable      = compat.Same("disable")
	keyAgentTools        = compat.Same("tools")
	keyAgentPermission   = compat.Same("permission")

	agentKeys = []compat.Key{
		keyAgentModel, keyAgentVariant, keyAgentTemperature, keyAgentTopP,
		keyAgentPrompt, keyAgentPromptAppend, keyAgentDescription, keyAgentMode,
		keyAgentColor, keyAgentDisable, keyAgentTools, keyAgentPermission,
	}
)

func fieldOf(k compat.Key) merge.Field {
	return merge.Field{Canonical: k.Canonical, Legacy: k.Legacy}
}

// modelled reports whether name is a spelling of any of keys.
func modelled(name string, keys []compat.Key) bool {
	for _, k := range keys {
		if k.Has(name) {
			return true
		}
	}
	return false
}
