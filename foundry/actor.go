package foundry

import (
	"strings"

	"github.com/martinemde/foundrygen/schema"
)

// ActorDocument maps a canonical actor by category. Unknown categories
// normalize to the full creature treatment.
func (m *Mapper) ActorDocument(rec schema.ActorRecord) HostDocument {
	switch rec.Category {
	case "hazard":
		return m.hazardDocument(rec)
	case "loot":
		return m.lootDocument(rec)
	default:
		return m.creatureDocument(rec)
	}
}

// creatureDocument builds the full NPC block: attributes, perception,
// saves, abilities, skills, plus every nested sub-record expanded into an
// independent item document.
func (m *Mapper) creatureDocument(rec schema.ActorRecord) HostDocument {
	known, unknown := filterKnown(rec.Traits, m.cfg.ActorTraits)
	img := m.image(rec.Img, "creature")

	sys := map[string]interface{}{
		"slug": rec.Slug,
		"attributes": map[string]interface{}{
			"hp": map[string]interface{}{
				"value": rec.Attributes.HP.Value,
				"max":   rec.Attributes.HP.Max,
				"temp":  rec.Attributes.HP.Temp,
			},
			"ac": map[string]interface{}{"value": rec.Attributes.AC.Value},
			"speed": map[string]interface{}{
				"value":       rec.Attributes.Speed.Value,
				"otherSpeeds": []interface{}{},
			},
		},
		"perception": map[string]interface{}{"mod": rec.Attributes.Perception.Value},
		"saves":      savesBlock(rec.Attributes.Saves),
		"abilities": map[string]interface{}{
			"str": map[string]interface{}{"mod": rec.Abilities.Str},
			"dex": map[string]interface{}{"mod": rec.Abilities.Dex},
			"con": map[string]interface{}{"mod": rec.Abilities.Con},
			"int": map[string]interface{}{"mod": rec.Abilities.Int},
			"wis": map[string]interface{}{"mod": rec.Abilities.Wis},
			"cha": map[string]interface{}{"mod": rec.Abilities.Cha},
		},
		"skills": skillsBlock(rec.Skills),
		"details": map[string]interface{}{
			"level":       map[string]interface{}{"value": rec.Level},
			"publicNotes": m.describe(rec.Description, demoted("traits", unknown)),
		},
		"traits": map[string]interface{}{
			"value":  known,
			"rarity": "common",
			"size":   map[string]interface{}{"value": normalizeSize(rec.Size)},
		},
	}

	return HostDocument{
		Name:           rec.Name,
		Type:           "npc",
		Img:            img,
		System:         sys,
		PrototypeToken: m.token(rec, img),
		Items:          m.combatItems(rec),
		Effects:        []interface{}{},
		Flags:          docFlags(rec.Slug, rec.SchemaVersion, nil),
	}
}

// hazardDocument builds the hazard block: hardness and stealth join the
// attributes, disable and routine text get check and roll macros annotated,
// and the ability and perception fields are omitted.
func (m *Mapper) hazardDocument(rec schema.ActorRecord) HostDocument {
	known, unknown := filterKnown(rec.Traits, m.cfg.ActorTraits)
	img := m.image(rec.Img, "hazard")

	sys := map[string]interface{}{
		"slug": rec.Slug,
		"attributes": map[string]interface{}{
			"hp": map[string]interface{}{
				"value": rec.Attributes.HP.Value,
				"max":   rec.Attributes.HP.Max,
				"temp":  rec.Attributes.HP.Temp,
			},
			"ac":       map[string]interface{}{"value": rec.Attributes.AC.Value},
			"hardness": rec.Hardness,
			"stealth": map[string]interface{}{
				"value":   rec.Stealth.Value,
				"details": m.rw.AnnotateHazardText(rec.Stealth.Details),
			},
		},
		"saves": savesBlock(rec.Attributes.Saves),
		"details": map[string]interface{}{
			"level":       map[string]interface{}{"value": rec.Level},
			"disable":     ensureParagraph(m.rw.AnnotateHazardText(renderEmphasis(rec.Disable))),
			"routine":     ensureParagraph(m.rw.AnnotateHazardText(renderEmphasis(rec.Routine))),
			"reset":       m.rw.RewriteRefs(rec.Reset),
			"isComplex":   rec.Routine != "",
			"description": m.describe(rec.Description, demoted("traits", unknown)),
		},
		"traits": map[string]interface{}{
			"value":  known,
			"rarity": "common",
			"size":   map[string]interface{}{"value": normalizeSize(rec.Size)},
		},
	}

	return HostDocument{
		Name:           rec.Name,
		Type:           "hazard",
		Img:            img,
		System:         sys,
		PrototypeToken: m.token(rec, img),
		Items:          m.combatItems(rec),
		Effects:        []interface{}{},
		Flags:          docFlags(rec.Slug, rec.SchemaVersion, nil),
	}
}

// lootDocument builds the minimal loot-sheet block and skips all combat
// fields; only the inventory expands into items.
func (m *Mapper) lootDocument(rec schema.ActorRecord) HostDocument {
	known, unknown := filterKnown(rec.Traits, m.cfg.ActorTraits)
	img := m.image(rec.Img, "loot")

	sys := map[string]interface{}{
		"slug": rec.Slug,
		"details": map[string]interface{}{
			"level":       map[string]interface{}{"value": rec.Level},
			"description": m.describe(rec.Description, demoted("traits", unknown)),
		},
		"lootSheetType": map[string]interface{}{"value": "Loot"},
		"traits": map[string]interface{}{
			"value":  known,
			"rarity": "common",
		},
	}

	items := []HostDocument{}
	for _, entry := range rec.Inventory {
		items = append(items, m.inventoryItem(entry))
	}

	return HostDocument{
		Name:           rec.Name,
		Type:           "loot",
		Img:            img,
		System:         sys,
		PrototypeToken: m.token(rec, img),
		Items:          items,
		Effects:        []interface{}{},
		Flags:          docFlags(rec.Slug, rec.SchemaVersion, nil),
	}
}

// combatItems expands strikes, special actions, spellcasting, and inventory
// into independent item documents, in that fixed order.
func (m *Mapper) combatItems(rec schema.ActorRecord) []HostDocument {
	items := []HostDocument{}
	for _, s := range rec.Strikes {
		items = append(items, m.strikeItem(s))
	}
	for _, a := range rec.SpecialActions {
		items = append(items, m.specialActionItem(a))
	}
	if sc := rec.Spellcasting; sc != nil {
		items = append(items, m.spellcastingEntryItem(*sc))
		for _, sp := range sc.Spells {
			items = append(items, m.spellItem(sp))
		}
	}
	for _, entry := range rec.Inventory {
		items = append(items, m.inventoryItem(entry))
	}
	return items
}

func (m *Mapper) strikeItem(s schema.Strike) HostDocument {
	knownTraits, unknownTraits := filterKnown(s.Traits, m.cfg.ItemTraits)
	knownEffects, unknownEffects := filterKnown(s.AttackEffects, m.cfg.AttackEffects)

	damageType := s.DamageType
	if damageType == "" {
		damageType = "bludgeoning"
	}

	sys := map[string]interface{}{
		"bonus": map[string]interface{}{"value": s.AttackBonus},
		"damageRolls": map[string]interface{}{
			"0": map[string]interface{}{"damage": s.Damage, "damageType": damageType},
		},
		"traits":        map[string]interface{}{"value": knownTraits},
		"attackEffects": map[string]interface{}{"value": knownEffects},
		"description": map[string]interface{}{
			"value": m.describe("",
				demoted("traits", unknownTraits),
				demoted("attack effects", unknownEffects)),
		},
	}

	return HostDocument{
		Name:    s.Name,
		Type:    "melee",
		Img:     m.cfg.fallbackImage("strike"),
		System:  sys,
		Items:   []HostDocument{},
		Effects: []interface{}{},
	}
}

func (m *Mapper) specialActionItem(a schema.SpecialAction) HostDocument {
	actionType := a.ActionType
	if !actionTypes[actionType] {
		actionType = "action"
	}

	sys := map[string]interface{}{
		"actionType":  map[string]interface{}{"value": actionType},
		"actions":     map[string]interface{}{"value": actionCost(actionType, a.Actions)},
		"description": map[string]interface{}{"value": m.describe(a.Description)},
		"traits":      map[string]interface{}{"value": []string{}, "rarity": "common"},
	}

	return HostDocument{
		Name:    a.Name,
		Type:    "action",
		Img:     m.cfg.fallbackImage(actionType),
		System:  sys,
		Items:   []HostDocument{},
		Effects: []interface{}{},
	}
}

func (m *Mapper) spellcastingEntryItem(sc schema.Spellcasting) HostDocument {
	sys := map[string]interface{}{
		"tradition": map[string]interface{}{"value": sc.Tradition},
		"spelldc":   map[string]interface{}{"dc": sc.DC, "value": sc.Attack},
		"prepared":  map[string]interface{}{"value": "innate"},
	}

	return HostDocument{
		Name:    titleCase(sc.Tradition) + " Spells",
		Type:    "spellcastingEntry",
		Img:     m.cfg.fallbackImage("spellcastingEntry"),
		System:  sys,
		Items:   []HostDocument{},
		Effects: []interface{}{},
	}
}

func (m *Mapper) spellItem(sp schema.Spell) HostDocument {
	sys := map[string]interface{}{
		"level":       map[string]interface{}{"value": sp.Level},
		"description": map[string]interface{}{"value": m.describe(sp.Description)},
		"traits":      map[string]interface{}{"value": []string{}, "rarity": "common"},
	}

	return HostDocument{
		Name:    sp.Name,
		Type:    "spell",
		Img:     m.cfg.fallbackImage("spell"),
		System:  sys,
		Items:   []HostDocument{},
		Effects: []interface{}{},
	}
}

func (m *Mapper) inventoryItem(entry schema.InventoryEntry) HostDocument {
	quantity := entry.Quantity
	if quantity < 1 {
		quantity = 1
	}

	sys := map[string]interface{}{
		"quantity":    quantity,
		"description": map[string]interface{}{"value": m.describe(entry.Description)},
	}

	return HostDocument{
		Name:    entry.Name,
		Type:    hostItemType(entry.ItemType),
		Img:     m.cfg.fallbackImage("inventory"),
		System:  sys,
		Items:   []HostDocument{},
		Effects: []interface{}{},
	}
}

func savesBlock(s schema.Saves) map[string]interface{} {
	return map[string]interface{}{
		"fortitude": map[string]interface{}{"value": s.Fortitude},
		"reflex":    map[string]interface{}{"value": s.Reflex},
		"will":      map[string]interface{}{"value": s.Will},
	}
}

// skillsBlock keys trained skills by lowercase name.
func skillsBlock(skills []schema.Skill) map[string]interface{} {
	out := map[string]interface{}{}
	for _, sk := range skills {
		name := strings.ToLower(strings.TrimSpace(sk.Name))
		if name == "" {
			continue
		}
		out[name] = map[string]interface{}{"base": sk.Value}
	}
	return out
}

var actorSizes = set("tiny", "sm", "med", "lg", "huge", "grg")

func normalizeSize(size string) string {
	if actorSizes[size] {
		return size
	}
	return "med"
}

// token builds the prototype token with square dimensions from actor size.
func (m *Mapper) token(rec schema.ActorRecord, img string) map[string]interface{} {
	var dim float64
	switch normalizeSize(rec.Size) {
	case "tiny":
		dim = 0.5
	case "lg":
		dim = 2
	case "huge":
		dim = 3
	case "grg":
		dim = 4
	default:
		dim = 1
	}
	return map[string]interface{}{
		"name":    rec.Name,
		"width":   dim,
		"height":  dim,
		"texture": map[string]interface{}{"src": img},
	}
}
