package llmclient

// SchemaDef is a named JSON Schema handed to the Request Client. The schema is
// an already-decoded draft 2020-12 document; Name appears in telemetry, parse
// errors, and the tool definition sent in tool-calling mode.
type SchemaDef struct {
	Name        string
	Description string
	Schema      map[string]interface{}
}

// HasLooseShape reports whether any object node in the schema carries an
// unconstrained wildcard property set: additionalProperties left open on a
// node with no declared properties, or explicitly set to true or to a schema.
// Such schemas are rejected by the structured endpoint, so tool-calling mode
// becomes mandatory.
func (d SchemaDef) HasLooseShape() bool {
	return hasLooseShape(d.Schema)
}

func hasLooseShape(node map[string]interface{}) bool {
	if typ, _ := node["type"].(string); typ == "object" {
		props, hasProps := node["properties"].(map[string]interface{})
		switch ap := node["additionalProperties"].(type) {
		case bool:
			if ap {
				return true
			}
		case map[string]interface{}:
			return true
		default:
			// additionalProperties unspecified: loose only when the node
			// declares no properties at all.
			if !hasProps || len(props) == 0 {
				return true
			}
		}
		for _, sub := range props {
			if subMap, ok := sub.(map[string]interface{}); ok && hasLooseShape(subMap) {
				return true
			}
		}
	}
	if items, ok := node["items"].(map[string]interface{}); ok {
		if hasLooseShape(items) {
			return true
		}
	}
	for _, key := range []string{"anyOf", "oneOf", "allOf"} {
		if list, ok := node[key].([]interface{}); ok {
			for _, sub := range list {
				if subMap, ok := sub.(map[string]interface{}); ok && hasLooseShape(subMap) {
					return true
				}
			}
		}
	}
	return false
}

// NormalizeRequired returns a deep copy of the schema in which every object
// node's declared properties are all listed as required. The structured
// endpoint rejects schemas with optional properties even when the author
// intended optionality with defaults. The operation is idempotent.
func (d SchemaDef) NormalizeRequired() map[string]interface{} {
	return normalizeRequired(d.Schema)
}

func normalizeRequired(node map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(node))
	for k, v := range node {
		out[k] = normalizeValue(v)
	}
	if typ, _ := out["type"].(string); typ == "object" {
		if props, ok := out["properties"].(map[string]interface{}); ok && len(props) > 0 {
			required := make([]interface{}, 0, len(props))
			for _, name := range sortedKeys(props) {
				required = append(required, name)
			}
			out["required"] = required
		}
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return normalizeRequired(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// sortedKeys keeps the forced required list deterministic across calls.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
