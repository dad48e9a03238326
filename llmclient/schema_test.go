package llmclient

import (
	"reflect"
	"testing"
)

func objectSchema(props map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	node := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	for k, v := range extra {
		node[k] = v
	}
	return node
}

func TestHasLooseShape(t *testing.T) {
	tests := []struct {
		name   string
		schema map[string]interface{}
		want   bool
	}{
		{
			name: "closed object",
			schema: objectSchema(map[string]interface{}{
				"name": map[string]interface{}{"type": "string"},
			}, map[string]interface{}{"additionalProperties": false}),
			want: false,
		},
		{
			name: "wildcard at root",
			schema: objectSchema(map[string]interface{}{
				"name": map[string]interface{}{"type": "string"},
			}, map[string]interface{}{"additionalProperties": true}),
			want: true,
		},
		{
			name: "wildcard nested under a property",
			schema: objectSchema(map[string]interface{}{
				"flags": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": true,
				},
			}, map[string]interface{}{"additionalProperties": false}),
			want: true,
		},
		{
			name: "object with no declared properties",
			schema: map[string]interface{}{
				"type": "object",
			},
			want: true,
		},
		{
			name: "wildcard inside array items",
			schema: objectSchema(map[string]interface{}{
				"entries": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
					},
				},
			}, map[string]interface{}{"additionalProperties": false}),
			want: true,
		},
		{
			name: "schema-valued additionalProperties",
			schema: objectSchema(map[string]interface{}{
				"name": map[string]interface{}{"type": "string"},
			}, map[string]interface{}{
				"additionalProperties": map[string]interface{}{"type": "string"},
			}),
			want: true,
		},
		{
			name: "closed object inside oneOf",
			schema: objectSchema(map[string]interface{}{
				"spellcasting": map[string]interface{}{
					"oneOf": []interface{}{
						map[string]interface{}{"type": "null"},
						objectSchema(map[string]interface{}{
							"dc": map[string]interface{}{"type": "integer"},
						}, map[string]interface{}{"additionalProperties": false}),
					},
				},
			}, map[string]interface{}{"additionalProperties": false}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := SchemaDef{Name: "test", Schema: tt.schema}
			if got := def.HasLooseShape(); got != tt.want {
				t.Errorf("HasLooseShape() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeRequiredForcesAllProperties(t *testing.T) {
	def := SchemaDef{Name: "test", Schema: objectSchema(map[string]interface{}{
		"name": map[string]interface{}{"type": "string"},
		"traits": map[string]interface{}{
			"type": "array",
			"items": objectSchema(map[string]interface{}{
				"value": map[string]interface{}{"type": "string"},
				"label": map[string]interface{}{"type": "string"},
			}, map[string]interface{}{"additionalProperties": false}),
		},
	}, map[string]interface{}{
		"additionalProperties": false,
		"required":             []interface{}{"name"},
	})}

	got := def.NormalizeRequired()

	if want := []interface{}{"name", "traits"}; !reflect.DeepEqual(got["required"], want) {
		t.Errorf("root required = %v, want %v", got["required"], want)
	}

	items := got["properties"].(map[string]interface{})["traits"].(map[string]interface{})["items"].(map[string]interface{})
	if want := []interface{}{"label", "value"}; !reflect.DeepEqual(items["required"], want) {
		t.Errorf("nested required = %v, want %v", items["required"], want)
	}
}

func TestNormalizeRequiredIdempotent(t *testing.T) {
	def := SchemaDef{Name: "test", Schema: objectSchema(map[string]interface{}{
		"b": map[string]interface{}{"type": "string"},
		"a": map[string]interface{}{"type": "integer"},
	}, map[string]interface{}{"additionalProperties": false})}

	once := def.NormalizeRequired()
	twice := SchemaDef{Name: "test", Schema: once}.NormalizeRequired()
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestNormalizeRequiredDoesNotMutateInput(t *testing.T) {
	schema := objectSchema(map[string]interface{}{
		"name": map[string]interface{}{"type": "string"},
	}, map[string]interface{}{"additionalProperties": false})
	def := SchemaDef{Name: "test", Schema: schema}

	def.NormalizeRequired()

	if _, ok := schema["required"]; ok {
		t.Error("NormalizeRequired mutated the input schema")
	}
}
