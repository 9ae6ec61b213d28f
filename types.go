package omocfg

// DefaultProfileName is used when a profile record carries no name.
const DefaultProfileName = "Unnamed Config"

// GlobalConfigID is the identifier of the singleton global configuration.
const GlobalConfigID = "global"

// AgentConfig is the definition of a single agent inside a profile.
//
// Every field is optional. Keys not modelled here are preserved in Extra and
// written back next to the modelled keys.
type AgentConfig struct {
	Model        *string         `json:"model,omitempty"`
	Variant      *string         `json:"variant,omitempty"`
	Temperature  *float64        `json:"temperature,omitempty"`
	TopP         *float64        `json:"top_p,omitempty"`
	Prompt       *string         `json:"prompt,omitempty"`
	PromptAppend *string         `json:"prompt_append,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Mode         *string         `json:"mode,omitempty"`
	Color        *string         `json:"color,omitempty"`
	Disable      *bool           `json:"disable,omitempty"`
	Tools        map[string]bool `json:"tools,omitempty"`
	Permission   map[string]any  `json:"permission,omitempty"`

	// Extra holds agent keys that have no dedicated field.
	Extra map[string]any `json:"-"`
}

// ProfileConfig is an agents profile as read from storage.
type ProfileConfig struct {
	ID          string
	Name        string
	IsApplied   bool
	Agents      map[string]AgentConfig
	OtherFields map[string]any
	CreatedAt   *string
	UpdatedAt   *string
}

// Content returns the storage-neutral content of p, dropping the identity
// and timestamps assigned by storage.
func (p ProfileConfig) Content() ProfileConfigContent {
	return ProfileConfigContent{
		Name:        p.Name,
		IsApplied:   p.IsApplied,
		Agents:      p.Agents,
		OtherFields: p.OtherFields,
	}
}

// ProfileConfigContent is the write-path form of ProfileConfig.
type ProfileConfigContent struct {
	Name        string                 `json:"name"`
	IsApplied   bool                   `json:"is_applied"`
	Agents      map[string]AgentConfig `json:"agents"`
	OtherFields map[string]any         `json:"other_fields"`
}

// SisyphusAgent toggles the built-in orchestrator agent.
type SisyphusAgent struct {
	Disabled              *bool `json:"disabled,omitempty"`
	DefaultBuilderEnabled *bool `json:"default_builder_enabled,omitempty"`
	PlannerEnabled        *bool `json:"planner_enabled,omitempty"`
	ReplacePlan           *bool `json:"replace_plan,omitempty"`
}

// GlobalConfig is the singleton configuration shared by all profiles.
//
// A nil slice or map means the field was absent from the record; an empty
// non-nil value means it was present and empty.
type GlobalConfig struct {
	ID             string
	Schema         *string
	SisyphusAgent  *SisyphusAgent
	DisabledAgents []string
	DisabledMcps   []string
	DisabledHooks  []string
	LSP            map[string]any
	Experimental   map[string]any
	OtherFields    map[string]any
	UpdatedAt      *string
}

// Content returns the storage-neutral content of g.
func (g GlobalConfig) Content() GlobalConfigContent {
	return GlobalConfigContent{
		Schema:         g.Schema,
		SisyphusAgent:  g.SisyphusAgent,
		DisabledAgents: g.DisabledAgents,
		DisabledMcps:   g.DisabledMcps,
		DisabledHooks:  g.DisabledHooks,
		LSP:            g.LSP,
		Experimental:   g.Experimental,
		OtherFields:    g.OtherFields,
	}
}

// GlobalConfigContent is the write-path form of GlobalConfig.
// Nil fields are omitted from the written record.
type GlobalConfigContent struct {
	Schema         *string        `json:"schema"`
	SisyphusAgent  *SisyphusAgent `json:"sisyphus_agent"`
	DisabledAgents []string       `json:"disabled_agents"`
	DisabledMcps   []string       `json:"disabled_mcps"`
	DisabledHooks  []string       `json:"disabled_hooks"`
	LSP            map[string]any `json:"lsp"`
	Experimental   map[string]any `json:"experimental"`
	OtherFields    map[string]any `json:"other_fields"`
}
