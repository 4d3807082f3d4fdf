package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/seenimoa/marketpipe/internal/config"
)

// StructuredExtractor extracts records from parsed JSON payloads. A
// dotted json_path walks to the data root. A sequence root yields one
// candidate per element; a mapping root is disambiguated by a
// heuristic: when none of the mapping's direct keys appear as values in
// field_mapping, the mapping is a keyed collection (each key names a
// record, e.g. a coin id) — otherwise it is a single record. Upstream
// APIs wrap both shapes inconsistently, and guessing wrong silently
// drops all data.
type StructuredExtractor struct{}

// Extract implements Extractor.
func (e *StructuredExtractor) Extract(content string, rs *config.RuleSet) ([]Candidate, error) {
	var root any
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	root, err := walkPath(root, rs.JSONPath)
	if err != nil {
		return nil, err
	}

	switch node := root.(type) {
	case []any:
		var out []Candidate
		for _, elem := range node {
			obj, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, mapFields(obj, rs.FieldMapping))
		}
		return out, nil

	case map[string]any:
		if isKeyedCollection(node, rs.FieldMapping) {
			return flattenKeyed(node, rs.FieldMapping), nil
		}
		return []Candidate{mapFields(node, rs.FieldMapping)}, nil

	default:
		return nil, fmt.Errorf("data root at %q is %T, want object or array", rs.JSONPath, root)
	}
}

// walkPath descends a dotted key path into nested objects.
func walkPath(root any, path string) (any, error) {
	if path == "" {
		return root, nil
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := root.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("json_path %q: segment %q applied to %T", path, key, root)
		}
		root, ok = obj[key]
		if !ok {
			return nil, fmt.Errorf("json_path %q: key %q not found", path, key)
		}
	}
	return root, nil
}

// isKeyedCollection reports whether a mapping root is a dictionary of
// records rather than a single record: true when none of its direct
// keys is referenced as a source field in field_mapping.
func isKeyedCollection(obj map[string]any, mapping map[string]string) bool {
	for key := range obj {
		for _, source := range mapping {
			if key == source {
				return false
			}
		}
	}
	return true
}

// flattenKeyed turns {"bitcoin": {...}, "ethereum": {...}} into one
// candidate per key, the key itself becoming the record name. Keys are
// visited in sorted order so extraction is deterministic.
func flattenKeyed(obj map[string]any, mapping map[string]string) []Candidate {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Candidate
	for _, key := range keys {
		nested, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		fields := make(Candidate)
		fields["name"] = key
		for target, source := range mapping {
			if target == "name" {
				continue
			}
			if v, ok := nested[source]; ok {
				fields[target] = v
			}
		}
		out = append(out, fields)
	}
	return out
}

// mapFields projects a record object through field_mapping
// (target field ← source key). Without a mapping the object's own keys
// pass through unchanged.
func mapFields(obj map[string]any, mapping map[string]string) Candidate {
	fields := make(Candidate)
	if len(mapping) == 0 {
		for k, v := range obj {
			fields[k] = v
		}
		return fields
	}
	for target, source := range mapping {
		if v, ok := obj[source]; ok {
			fields[target] = v
		}
	}
	return fields
}
