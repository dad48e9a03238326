package foundry

import "github.com/martinemde/foundrygen/schema"

var actionTypes = set("action", "reaction", "free", "passive")

// ActionDocument maps a canonical action into a host action item.
func (m *Mapper) ActionDocument(rec schema.ActionRecord) HostDocument {
	actionType := rec.ActionType
	if !actionTypes[actionType] {
		actionType = "action"
	}
	known, unknown := filterKnown(rec.Traits, m.cfg.ActionTraits)

	sys := map[string]interface{}{
		"slug":         rec.Slug,
		"actionType":   map[string]interface{}{"value": actionType},
		"actions":      map[string]interface{}{"value": actionCost(actionType, rec.Actions)},
		"description":  map[string]interface{}{"value": m.describe(rec.Description, demoted("traits", unknown))},
		"requirements": map[string]interface{}{"value": m.rw.RewriteRefs(rec.Requirements)},
		"trigger":      map[string]interface{}{"value": m.rw.RewriteRefs(rec.Trigger)},
		"traits":       map[string]interface{}{"value": known, "rarity": "common"},
	}

	return HostDocument{
		Name:    rec.Name,
		Type:    "action",
		Img:     m.image(rec.Img, actionType),
		System:  sys,
		Items:   []HostDocument{},
		Effects: []interface{}{},
		Flags:   docFlags(rec.Slug, rec.SchemaVersion, nil),
	}
}

// actionCost is the activation cost; only single-action activities carry a
// numeric cost on the host side.
func actionCost(actionType string, actions int) interface{} {
	if actionType != "action" {
		return nil
	}
	if actions < 0 {
		actions = 0
	}
	if actions > 3 {
		actions = 3
	}
	return actions
}
