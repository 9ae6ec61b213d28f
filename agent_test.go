package omocfg

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAgentFromValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  AgentConfig
	}{
		{
			name:  "not an object",
			value: "oracle",
			want:  AgentConfig{},
		},
		{
			name:  "nil",
			value: nil,
			want:  AgentConfig{},
		},
		{
			name: "modelled fields",
			value: map[string]any{
				"model":         "openai/gpt-5",
				"variant":       "high",
				"temperature":   0.1,
				"top_p":         int64(1),
				"prompt":        "p",
				"prompt_append": "pa",
				"description":   "d",
				"mode":          "subagent",
				"color":         "#00ff00",
				"disable":       false,
				"tools":         map[string]any{"bash": true, "edit": false},
				"permission":    map[string]any{"edit": "ask"},
			},
			want: AgentConfig{
				Model:        ptr("openai/gpt-5"),
				Variant:      ptr("high"),
				Temperature:  ptr(0.1),
				TopP:         ptr(1.0),
				Prompt:       ptr("p"),
				PromptAppend: ptr("pa"),
				Description:  ptr("d"),
				Mode:         ptr("subagent"),
				Color:        ptr("#00ff00"),
				Disable:      ptr(false),
				Tools:        map[string]bool{"bash": true, "edit": false},
				Permission:   map[string]any{"edit": "ask"},
			},
		},
		{
			name: "legacy spellings",
			value: map[string]any{
				"topP":         0.5,
				"promptAppend": "more",
			},
			want: AgentConfig{
				TopP:         ptr(0.5),
				PromptAppend: ptr("more"),
			},
		},
		{
			name: "malformed fields dropped, unknown kept",
			value: map[string]any{
				"model":       42,
				"temperature": "hot",
				"tools":       map[string]any{"bash": "yes", "read": true},
				"reasoning":   map[string]any{"effort": "high"},
			},
			want: AgentConfig{
				Tools: map[string]bool{"read": true},
				Extra: map[string]any{"reasoning": map[string]any{"effort": "high"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agentFromValue(tt.value)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("agentFromValue() = %s, want %s", dump(got), dump(tt.want))
			}
		})
	}
}

func TestAgentsFromValue_BadEntryDoesNotAbort(t *testing.T) {
	got := agentsFromValue(map[string]any{
		"good": map[string]any{"model": "m"},
		"bad":  []any{"x"},
	})
	if len(got) != 2 {
		t.Fatalf("len(agents) = %d, want 2", len(got))
	}
	if got["good"].Model == nil || *got["good"].Model != "m" {
		t.Errorf("good agent = %+v", got["good"])
	}
	if !reflect.DeepEqual(got["bad"], AgentConfig{}) {
		t.Errorf("bad agent = %+v, want zero value", got["bad"])
	}
}

func TestAgentConfig_MarshalJSON(t *testing.T) {
	a := AgentConfig{
		Model: ptr("m"),
		Extra: map[string]any{"model": "shadowed", "custom": 1},
	}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := map[string]any{"model": "m", "custom": 1.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MarshalJSON() = %v, want %v", got, want)
	}
}
