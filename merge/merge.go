// Package merge combines structured configuration values.
//
// Merge and Values implement the general overlay policy: object-shaped
// values are merged key by key, anything else is replaced by the overlay.
// Fields implements the narrower reconciliation used when one structure is
// stored under two key spellings.
package merge

import "github.com/yacchi/omocfg/record"

// Merge performs a deep merge of overlay into base.
// For keys where both sides hold objects, the objects are merged recursively.
// For all other keys present in overlay, the overlay value replaces the base
// value. Keys present only in base are left untouched.
// Values are deep copied so base never aliases overlay.
//
// Objects are recognised with record.Object, so typed maps such as
// map[string]map[string]any merge like map[string]any. A typed map that
// takes part in a merge is stored back as map[string]any.
//
// base must be non-nil when overlay is non-empty; a nil base is left as-is.
func Merge(base, overlay map[string]any) {
	if base == nil {
		return
	}
	for key, overlayValue := range overlay {
		overlayMap, overlayIsMap := record.Object(overlayValue)
		baseValue, exists := base[key]
		if !exists {
			base[key] = cloneValue(overlayValue, overlayMap, overlayIsMap)
			continue
		}

		baseMap, baseIsMap := record.Object(baseValue)
		if baseIsMap && overlayIsMap {
			if _, plain := baseValue.(map[string]any); !plain {
				baseMap = record.CloneMap(baseMap)
				base[key] = baseMap
			}
			Merge(baseMap, overlayMap)
		} else {
			base[key] = cloneValue(overlayValue, overlayMap, overlayIsMap)
		}
	}
}

// cloneValue copies an overlay value, converting object-shaped values to
// map[string]any.
func cloneValue(v any, m map[string]any, isMap bool) any {
	if isMap {
		return record.CloneMap(m)
	}
	return record.Clone(v)
}

// Values merges two values and returns the result without modifying either.
// For maps, keys are merged recursively into a copy of base.
// For other types (including slices), overlay replaces base.
func Values(base, overlay any) any {
	baseMap, baseIsMap := record.Object(base)
	overlayMap, overlayIsMap := record.Object(overlay)

	if baseIsMap && overlayIsMap {
		result := record.CloneMap(baseMap)
		if result == nil {
			result = make(map[string]any, len(overlayMap))
		}
		Merge(result, overlayMap)
		return result
	}

	return cloneValue(overlay, overlayMap, overlayIsMap)
}

// Field names one logical field of a flat structure in both spellings.
type Field struct {
	Canonical string
	Legacy    string
}

// Fields reconciles a structure stored under both a canonical and a legacy
// key. For each field, the canonical structure's value (looked up by the
// canonical spelling) wins; otherwise the legacy structure's value (looked
// up by the legacy spelling) is used. The result is keyed by canonical
// spellings. Fields absent from both sides are omitted, and an empty result
// is reported as nil.
func Fields(canonical, legacy map[string]any, fields []Field) map[string]any {
	merged := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := canonical[f.Canonical]; ok {
			merged[f.Canonical] = record.Clone(v)
		} else if v, ok := legacy[f.Legacy]; ok {
			merged[f.Canonical] = record.Clone(v)
		}
	}

	if len(merged) == 0 {
		return nil
	}
	return merged
}
