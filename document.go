package omocfg

import (
	"fmt"

	"github.com/yacchi/omocfg/compat"
	"github.com/yacchi/omocfg/merge"
	"github.com/yacchi/omocfg/record"
)

// keySchemaDocument is the schema key used by on-disk documents.
var keySchemaDocument = compat.Same("$schema")

// documentKeys are the top-level document keys with a dedicated field.
var documentKeys = []compat.Key{
	keySchema, keySchemaDocument, keySisyphusAgent,
	keyDisabledAgents, keyDisabledMcps, keyDisabledHooks,
	keyLSP, keyExperimental, keyAgents, keyOtherFields,
}

// ImportGlobal builds global content from a hand-edited configuration
// document. Every top-level key without a dedicated field (other than
// "agents", which belongs to profiles) is moved into OtherFields so nothing
// is lost when the content is written back.
func ImportGlobal(doc map[string]any) GlobalConfigContent {
	rec := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		rec[k] = v
	}
	if _, ok := rec[keySchema.Canonical]; !ok {
		if s, ok := compat.LookupString(doc, keySchemaDocument); ok {
			rec[keySchema.Canonical] = s
		}
	}

	content := GlobalFromRecord(rec).Content()

	other := content.OtherFields
	for k, v := range doc {
		if modelled(k, documentKeys) {
			continue
		}
		if other == nil {
			other = make(map[string]any)
		}
		other[k] = record.Clone(v)
	}
	content.OtherFields = other
	return content
}

// ImportProfile builds profile content named name from the agents section of
// a configuration document.
func ImportProfile(name string, doc map[string]any) ProfileConfigContent {
	agents, _ := compat.Lookup(doc, keyAgents)
	return ProfileConfigContent{
		Name:   name,
		Agents: agentsFromValue(agents),
	}
}

// Render builds the effective configuration document for global content and
// an optional applied profile. OtherFields of the global content form the
// base, the profile's OtherFields are deep-merged over it, and the modelled
// fields are merged last so they always win. The schema is written as
// "$schema".
func Render(global GlobalConfigContent, profile *ProfileConfigContent) (map[string]any, error) {
	out := make(map[string]any)
	merge.Merge(out, global.OtherFields)
	if profile != nil {
		merge.Merge(out, profile.OtherFields)
	}

	g, err := globalRecord(global)
	if err != nil {
		return nil, fmt.Errorf("failed to render global config: %w", err)
	}
	delete(g, keyOtherFields.Canonical)
	if schema, ok := g[keySchema.Canonical]; ok {
		delete(g, keySchema.Canonical)
		g[keySchemaDocument.Canonical] = schema
	}
	merge.Merge(out, g)

	if profile != nil && profile.Agents != nil {
		if err := checkEncodable(profile.Agents); err != nil {
			return nil, fmt.Errorf("failed to render profile %q: %w", profile.Name, err)
		}
		merge.Merge(out, map[string]any{keyAgents.Canonical: agentsRecord(profile.Agents)})
	}

	return out, nil
}
