package migrate

import (
	"strings"
)

// Concrete migration steps. Each is small and composable: ensure a default,
// normalize an array, bump the version stamp. Steps receive private clones,
// so in-place mutation is safe.

// actionV1ToV2 introduces the activation fields: actionType defaults to a
// single action, trigger and requirements default empty, traits are
// normalized.
func actionV1ToV2(record map[string]interface{}) (map[string]interface{}, error) {
	ensureString(record, "actionType", "action")
	ensureNumber(record, "actions", 1)
	ensureString(record, "requirements", "")
	ensureString(record, "trigger", "")
	normalizeStringArray(record, "traits")
	record["schema_version"] = 2
	return record, nil
}

// itemV1ToV2 introduces rarity, bulk, and usage with defaults and normalizes
// traits.
func itemV1ToV2(record map[string]interface{}) (map[string]interface{}, error) {
	ensureString(record, "rarity", "common")
	ensureString(record, "bulk", "-")
	ensureString(record, "usage", "held-in-one-hand")
	ensureString(record, "price", "0 gp")
	ensureNumber(record, "level", 0)
	normalizeStringArray(record, "traits")
	record["schema_version"] = 2
	return record, nil
}

// actorV1ToV2 rebuilds the nested attributes block from level-derived
// defaults. Version 1 actors predate the attributes object entirely, and the
// old flat fields cannot be reconstructed losslessly, so this step clears
// skills, strikes, special actions, and spellcasting rather than attempt a
// lossy reconstruction. The data loss on this upgrade path is deliberate.
func actorV1ToV2(record map[string]interface{}) (map[string]interface{}, error) {
	level := intValue(record, "level", 0)

	hp := level * 5
	if hp < 1 {
		hp = 1
	}
	record["attributes"] = map[string]interface{}{
		"hp":         map[string]interface{}{"value": float64(hp), "max": float64(hp), "temp": float64(0)},
		"ac":         map[string]interface{}{"value": float64(14 + level)},
		"perception": map[string]interface{}{"value": float64(3 + level)},
		"speed":      map[string]interface{}{"value": float64(25)},
		"saves": map[string]interface{}{
			"fortitude": float64(3 + level),
			"reflex":    float64(3 + level),
			"will":      float64(3 + level),
		},
	}
	record["skills"] = []interface{}{}
	record["strikes"] = []interface{}{}
	record["specialActions"] = []interface{}{}
	record["spellcasting"] = nil
	record["schema_version"] = 2
	return record, nil
}

// actorV2ToV3 introduces the actor category split and the hazard and loot
// field groups, and normalizes traits.
func actorV2ToV3(record map[string]interface{}) (map[string]interface{}, error) {
	ensureString(record, "category", "creature")
	ensureString(record, "size", "med")
	ensureString(record, "disable", "")
	ensureString(record, "routine", "")
	ensureString(record, "reset", "")
	ensureNumber(record, "hardness", 0)
	if _, ok := record["stealth"].(map[string]interface{}); !ok {
		record["stealth"] = map[string]interface{}{"value": float64(0), "details": ""}
	}
	if _, ok := record["inventory"].([]interface{}); !ok {
		record["inventory"] = []interface{}{}
	}
	normalizeStringArray(record, "traits")
	record["schema_version"] = 3
	return record, nil
}

// packEntryV1ToV2 introduces the category field and the flags object.
func packEntryV1ToV2(record map[string]interface{}) (map[string]interface{}, error) {
	ensureString(record, "category", "miscellany")
	if _, ok := record["flags"].(map[string]interface{}); !ok {
		record["flags"] = map[string]interface{}{}
	}
	if _, ok := record["entries"].([]interface{}); !ok {
		record["entries"] = []interface{}{}
	}
	record["schema_version"] = 2
	return record, nil
}

// ensureString sets a default when the key is absent or not a string.
func ensureString(record map[string]interface{}, key, def string) {
	if _, ok := record[key].(string); !ok {
		record[key] = def
	}
}

// ensureNumber sets a default when the key is absent or not numeric.
func ensureNumber(record map[string]interface{}, key string, def float64) {
	if _, ok := record[key].(float64); !ok {
		record[key] = def
	}
}

// intValue reads a numeric field, tolerating its absence.
func intValue(record map[string]interface{}, key string, def int) int {
	if v, ok := record[key].(float64); ok {
		return int(v)
	}
	return def
}

// normalizeStringArray trims entries, drops empties, and dedupes
// case-insensitively while preserving first-seen order.
func normalizeStringArray(record map[string]interface{}, key string) {
	raw, ok := record[key].([]interface{})
	if !ok {
		record[key] = []interface{}{}
		return
	}
	seen := make(map[string]bool, len(raw))
	out := make([]interface{}, 0, len(raw))
	for _, entry := range raw {
		s, ok := entry.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, s)
	}
	record[key] = out
}
