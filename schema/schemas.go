package schema

import (
	"encoding/json"
	"fmt"

	"github.com/martinemde/foundrygen/llmclient"
)

// Schema sources, draft 2020-12. Required lists name only the keys a record
// cannot exist without; optional members declare defaults. The request client
// forces every property into required before handing a schema to the
// structured endpoint, so optionality here governs validation and migration,
// not generation.

const actionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "schema_version": {"const": 2},
    "systemId": {"const": "pf2e"},
    "type": {"const": "action"},
    "slug": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "actionType": {"enum": ["action", "reaction", "free", "passive"]},
    "actions": {"type": "integer", "minimum": 0, "maximum": 3, "default": 1},
    "traits": {"type": "array", "items": {"type": "string"}, "default": []},
    "description": {"type": "string"},
    "requirements": {"type": "string", "default": ""},
    "trigger": {"type": "string", "default": ""},
    "img": {"type": "string", "default": ""}
  },
  "required": ["schema_version", "systemId", "type", "slug", "name", "actionType", "description"],
  "additionalProperties": false
}`

const itemSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "schema_version": {"const": 2},
    "systemId": {"const": "pf2e"},
    "type": {"const": "item"},
    "slug": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "itemType": {"enum": ["weapon", "armor", "shield", "equipment", "consumable", "treasure"]},
    "level": {"type": "integer", "minimum": 0, "maximum": 30, "default": 0},
    "price": {"type": "string", "default": "0 gp"},
    "rarity": {"enum": ["common", "uncommon", "rare", "unique"], "default": "common"},
    "traits": {"type": "array", "items": {"type": "string"}, "default": []},
    "description": {"type": "string"},
    "bulk": {"type": "string", "default": "-"},
    "usage": {"type": "string", "default": "held-in-one-hand"},
    "img": {"type": "string", "default": ""}
  },
  "required": ["schema_version", "systemId", "type", "slug", "name", "itemType", "description"],
  "additionalProperties": false
}`

const actorSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "schema_version": {"const": 3},
    "systemId": {"const": "pf2e"},
    "type": {"const": "actor"},
    "slug": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "category": {"enum": ["creature", "hazard", "loot"], "default": "creature"},
    "level": {"type": "integer", "minimum": -1, "maximum": 30},
    "size": {"enum": ["tiny", "sm", "med", "lg", "huge", "grg"], "default": "med"},
    "traits": {"type": "array", "items": {"type": "string"}, "default": []},
    "description": {"type": "string"},
    "img": {"type": "string", "default": ""},
    "attributes": {
      "type": "object",
      "properties": {
        "hp": {
          "type": "object",
          "properties": {
            "value": {"type": "integer"},
            "max": {"type": "integer"},
            "temp": {"type": "integer", "default": 0}
          },
          "required": ["value", "max"],
          "additionalProperties": false
        },
        "ac": {
          "type": "object",
          "properties": {"value": {"type": "integer"}},
          "required": ["value"],
          "additionalProperties": false
        },
        "perception": {
          "type": "object",
          "properties": {"value": {"type": "integer"}},
          "required": ["value"],
          "additionalProperties": false
        },
        "speed": {
          "type": "object",
          "properties": {"value": {"type": "integer"}},
          "required": ["value"],
          "additionalProperties": false
        },
        "saves": {
          "type": "object",
          "properties": {
            "fortitude": {"type": "integer"},
            "reflex": {"type": "integer"},
            "will": {"type": "integer"}
          },
          "required": ["fortitude", "reflex", "will"],
          "additionalProperties": false
        }
      },
      "required": ["hp", "ac", "perception", "speed", "saves"],
      "additionalProperties": false
    },
    "abilities": {
      "type": "object",
      "properties": {
        "str": {"type": "integer", "default": 0},
        "dex": {"type": "integer", "default": 0},
        "con": {"type": "integer", "default": 0},
        "int": {"type": "integer", "default": 0},
        "wis": {"type": "integer", "default": 0},
        "cha": {"type": "integer", "default": 0}
      },
      "additionalProperties": false
    },
    "skills": {
      "type": "array",
      "default": [],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "value": {"type": "integer"}
        },
        "required": ["name", "value"],
        "additionalProperties": false
      }
    },
    "strikes": {
      "type": "array",
      "default": [],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "attackBonus": {"type": "integer"},
          "damage": {"type": "string"},
          "damageType": {"type": "string", "default": "bludgeoning"},
          "traits": {"type": "array", "items": {"type": "string"}, "default": []},
          "attackEffects": {"type": "array", "items": {"type": "string"}, "default": []}
        },
        "required": ["name", "attackBonus", "damage"],
        "additionalProperties": false
      }
    },
    "specialActions": {
      "type": "array",
      "default": [],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "actionType": {"enum": ["action", "reaction", "free", "passive"], "default": "action"},
          "actions": {"type": "integer", "minimum": 0, "maximum": 3, "default": 1},
          "description": {"type": "string"}
        },
        "required": ["name", "description"],
        "additionalProperties": false
      }
    },
    "spellcasting": {
      "oneOf": [
        {"type": "null"},
        {
          "type": "object",
          "properties": {
            "tradition": {"enum": ["arcane", "divine", "occult", "primal"]},
            "dc": {"type": "integer"},
            "attack": {"type": "integer"},
            "spells": {
              "type": "array",
              "default": [],
              "items": {
                "type": "object",
                "properties": {
                  "name": {"type": "string"},
                  "level": {"type": "integer", "minimum": 0, "maximum": 10},
                  "description": {"type": "string", "default": ""}
                },
                "required": ["name", "level"],
                "additionalProperties": false
              }
            }
          },
          "required": ["tradition", "dc", "attack"],
          "additionalProperties": false
        }
      ],
      "default": null
    },
    "inventory": {
      "type": "array",
      "default": [],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "itemType": {"type": "string", "default": "equipment"},
          "quantity": {"type": "integer", "minimum": 1, "default": 1},
          "description": {"type": "string", "default": ""}
        },
        "required": ["name"],
        "additionalProperties": false
      }
    },
    "hardness": {"type": "integer", "minimum": 0, "default": 0},
    "stealth": {
      "type": "object",
      "properties": {
        "value": {"type": "integer", "default": 0},
        "details": {"type": "string", "default": ""}
      },
      "additionalProperties": false
    },
    "disable": {"type": "string", "default": ""},
    "routine": {"type": "string", "default": ""},
    "reset": {"type": "string", "default": ""}
  },
  "required": ["schema_version", "systemId", "type", "slug", "name", "level", "description", "attributes"],
  "additionalProperties": false
}`

const packEntrySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "schema_version": {"const": 2},
    "systemId": {"const": "pf2e"},
    "type": {"const": "packEntry"},
    "slug": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "category": {"type": "string", "default": "miscellany"},
    "description": {"type": "string"},
    "entries": {
      "type": "array",
      "default": [],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string", "default": "note"},
          "description": {"type": "string", "default": ""}
        },
        "required": ["name"],
        "additionalProperties": false
      }
    },
    "flags": {"type": "object", "additionalProperties": true, "default": {}}
  },
  "required": ["schema_version", "systemId", "type", "slug", "name", "description"],
  "additionalProperties": false
}`

var schemaSources = map[EntityType]string{
	EntityAction:    actionSchemaJSON,
	EntityItem:      itemSchemaJSON,
	EntityActor:     actorSchemaJSON,
	EntityPackEntry: packEntrySchemaJSON,
}

var schemaDocs = map[EntityType]map[string]interface{}{}

func init() {
	for t, src := range schemaSources {
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(src), &doc); err != nil {
			panic(fmt.Sprintf("schema: invalid %s schema: %v", t, err))
		}
		schemaDocs[t] = doc
	}
}

// Def returns the request-client schema definition for an entity type.
func Def(t EntityType) (llmclient.SchemaDef, error) {
	doc, ok := schemaDocs[t]
	if !ok {
		return llmclient.SchemaDef{}, fmt.Errorf("schema: unknown entity type %q", t)
	}
	return llmclient.SchemaDef{
		Name:        string(t),
		Description: schemaDescriptions[t],
		Schema:      doc,
	}, nil
}

var schemaDescriptions = map[EntityType]string{
	EntityAction:    "A structured game action record with activation type, traits, and rules text.",
	EntityItem:      "A structured game item record with category, level, price, traits, and rules text.",
	EntityActor:     "A structured game creature, hazard, or loot actor record with full statistics.",
	EntityPackEntry: "A structured compendium pack entry grouping related named sub-entries.",
}

// RecordVersion reads the schema_version stamp from a raw record. Records
// without a readable stamp report version 0.
func RecordVersion(payload json.RawMessage) int {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return 0
	}
	return probe.SchemaVersion
}
