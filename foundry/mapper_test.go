package foundry

import (
	"reflect"
	"strings"
	"testing"

	"github.com/martinemde/foundrygen/schema"
)

func sampleActor() schema.ActorRecord {
	return schema.ActorRecord{
		SchemaVersion: 3,
		SystemID:      "pf2e",
		Type:          "actor",
		Slug:          "swamp-troll",
		Name:          "Swamp Troll",
		Category:      "creature",
		Level:         4,
		Size:          "lg",
		Traits:        []string{"giant", "troll-kin"},
		Description:   "A hungry troll. The target is grabbed.",
		Attributes: schema.Attributes{
			HP:         schema.HitPoints{Value: 75, Max: 75},
			AC:         schema.ArmorClass{Value: 20},
			Perception: schema.Perception{Value: 11},
			Speed:      schema.Speed{Value: 30},
			Saves:      schema.Saves{Fortitude: 13, Reflex: 8, Will: 9},
		},
		Abilities: schema.Abilities{Str: 5, Dex: 0, Con: 4, Int: -2, Wis: 1, Cha: -1},
		Skills:    []schema.Skill{{Name: "Athletics", Value: 13}},
		Strikes: []schema.Strike{{
			Name:          "Claw",
			AttackBonus:   14,
			Damage:        "2d8+7",
			DamageType:    "slashing",
			Traits:        []string{"agile", "bespoke-trait"},
			AttackEffects: []string{"grab", "soul-rend"},
		}},
		SpecialActions: []schema.SpecialAction{{
			Name:        "Regeneration",
			ActionType:  "passive",
			Description: "Regains 10 HP at the start of its turn.",
		}},
		Spellcasting: &schema.Spellcasting{
			Tradition: "primal",
			DC:        21,
			Attack:    13,
			Spells:    []schema.Spell{{Name: "Entangle", Level: 2, Description: "Vines grasp."}},
		},
		Inventory: []schema.InventoryEntry{{Name: "Rusty Key", ItemType: "equipment", Quantity: 1}},
	}
}

func TestMapperDeterminism(t *testing.T) {
	mapper := NewMapper(nil)

	first := mapper.ActorDocument(sampleActor())
	second := mapper.ActorDocument(sampleActor())
	if !reflect.DeepEqual(first, second) {
		t.Error("mapping the same canonical actor twice produced different documents")
	}

	otherMapper := NewMapper(DefaultPF2eConfig())
	third := otherMapper.ActorDocument(sampleActor())
	if !reflect.DeepEqual(first, third) {
		t.Error("mapping diverges across mapper instances")
	}
}

func TestCreatureDocument(t *testing.T) {
	mapper := NewMapper(nil)
	doc := mapper.ActorDocument(sampleActor())

	if doc.Type != "npc" {
		t.Errorf("Type = %q, want npc", doc.Type)
	}
	if doc.Img != "systems/pf2e/icons/default-icons/npc.svg" {
		t.Errorf("Img = %q, want creature fallback", doc.Img)
	}
	if doc.PrototypeToken["width"] != float64(2) {
		t.Errorf("token width = %v, want 2 for a large actor", doc.PrototypeToken["width"])
	}

	attrs := doc.System["attributes"].(map[string]interface{})
	hp := attrs["hp"].(map[string]interface{})
	if hp["max"] != 75 {
		t.Errorf("hp.max = %v, want 75", hp["max"])
	}

	// Strike, special action, spellcasting entry, spell, inventory entry.
	if len(doc.Items) != 5 {
		t.Fatalf("actor has %d items, want 5", len(doc.Items))
	}
	types := make([]string, len(doc.Items))
	for i, item := range doc.Items {
		types[i] = item.Type
	}
	want := []string{"melee", "action", "spellcastingEntry", "spell", "equipment"}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("item types = %v, want %v", types, want)
	}
}

func TestCreatureTraitFiltering(t *testing.T) {
	mapper := NewMapper(nil)
	doc := mapper.ActorDocument(sampleActor())

	traits := doc.System["traits"].(map[string]interface{})["value"].([]string)
	if !reflect.DeepEqual(traits, []string{"giant"}) {
		t.Errorf("traits = %v, want only the recognized giant", traits)
	}

	notes := doc.System["details"].(map[string]interface{})["publicNotes"].(string)
	if !strings.Contains(notes, "troll-kin") {
		t.Errorf("unrecognized trait lost, not demoted to description: %s", notes)
	}
}

func TestStrikeItem(t *testing.T) {
	mapper := NewMapper(nil)
	doc := mapper.ActorDocument(sampleActor())

	strike := doc.Items[0]
	if strike.Name != "Claw" {
		t.Fatalf("first item = %q, want the strike", strike.Name)
	}
	if strike.System["bonus"].(map[string]interface{})["value"] != 14 {
		t.Error("attack bonus not mapped")
	}

	effects := strike.System["attackEffects"].(map[string]interface{})["value"].([]string)
	if !reflect.DeepEqual(effects, []string{"grab"}) {
		t.Errorf("attackEffects = %v, want only the recognized grab", effects)
	}
	desc := strike.System["description"].(map[string]interface{})["value"].(string)
	if !strings.Contains(desc, "soul-rend") {
		t.Errorf("unrecognized attack effect lost: %s", desc)
	}
	if !strings.Contains(desc, "bespoke-trait") {
		t.Errorf("unrecognized strike trait lost: %s", desc)
	}
}

func TestHazardDocument(t *testing.T) {
	mapper := NewMapper(nil)
	rec := sampleActor()
	rec.Category = "hazard"
	rec.Name = "Scythe Blades"
	rec.Hardness = 10
	rec.Stealth = schema.Stealth{Value: 20, Details: "DC 20 Perception to notice"}
	rec.Disable = "DC 20 Thievery to jam the blades"
	rec.Routine = "The blades sweep, dealing 2d6+4 damage."
	rec.Strikes = nil
	rec.SpecialActions = nil
	rec.Spellcasting = nil
	rec.Inventory = nil

	doc := mapper.ActorDocument(rec)
	if doc.Type != "hazard" {
		t.Fatalf("Type = %q, want hazard", doc.Type)
	}

	if _, ok := doc.System["abilities"]; ok {
		t.Error("hazard carries abilities")
	}
	if _, ok := doc.System["perception"]; ok {
		t.Error("hazard carries perception")
	}

	attrs := doc.System["attributes"].(map[string]interface{})
	if attrs["hardness"] != 10 {
		t.Errorf("hardness = %v, want 10", attrs["hardness"])
	}

	details := doc.System["details"].(map[string]interface{})
	if disable := details["disable"].(string); !strings.Contains(disable, "@Check[type:thievery|dc:20]") {
		t.Errorf("disable text not annotated: %s", disable)
	}
	if routine := details["routine"].(string); !strings.Contains(routine, "[[/r 2d6+4]]") {
		t.Errorf("routine text not annotated: %s", routine)
	}
	if details["isComplex"] != true {
		t.Error("hazard with a routine should be complex")
	}
}

func TestLootDocument(t *testing.T) {
	mapper := NewMapper(nil)
	rec := sampleActor()
	rec.Category = "loot"

	doc := mapper.ActorDocument(rec)
	if doc.Type != "loot" {
		t.Fatalf("Type = %q, want loot", doc.Type)
	}
	if _, ok := doc.System["attributes"]; ok {
		t.Error("loot actor carries combat attributes")
	}
	if doc.System["lootSheetType"].(map[string]interface{})["value"] != "Loot" {
		t.Error("loot sheet block missing")
	}

	// Only the inventory expands; strikes and spells are skipped.
	if len(doc.Items) != 1 || doc.Items[0].Name != "Rusty Key" {
		t.Errorf("loot items = %+v, want just the inventory entry", doc.Items)
	}
}

func TestUnknownCategoryNormalizesToCreature(t *testing.T) {
	mapper := NewMapper(nil)
	rec := sampleActor()
	rec.Category = "vehicle"

	doc := mapper.ActorDocument(rec)
	if doc.Type != "npc" {
		t.Errorf("Type = %q, want npc for an unknown category", doc.Type)
	}
}

func TestActionDocument(t *testing.T) {
	mapper := NewMapper(nil)
	rec := schema.ActionRecord{
		SchemaVersion: 2,
		Slug:          "power-attack",
		Name:          "Power Attack",
		ActionType:    "action",
		Actions:       2,
		Traits:        []string{"attack", "homebrew"},
		Description:   "Swing hard. The target is knocked prone.",
	}

	doc := mapper.ActionDocument(rec)
	if doc.Type != "action" {
		t.Errorf("Type = %q, want action", doc.Type)
	}
	if doc.Img != "systems/pf2e/icons/actions/OneAction.webp" {
		t.Errorf("Img = %q, want action fallback", doc.Img)
	}
	if doc.System["actions"].(map[string]interface{})["value"] != 2 {
		t.Error("action cost not mapped")
	}

	traits := doc.System["traits"].(map[string]interface{})["value"].([]string)
	if !reflect.DeepEqual(traits, []string{"attack"}) {
		t.Errorf("traits = %v, want only attack", traits)
	}

	desc := doc.System["description"].(map[string]interface{})["value"].(string)
	if !strings.Contains(desc, "{Prone}") {
		t.Errorf("condition not rewritten in description: %s", desc)
	}
	if !strings.Contains(desc, "homebrew") {
		t.Errorf("unrecognized trait lost: %s", desc)
	}
}

func TestReactionHasNoActionCost(t *testing.T) {
	mapper := NewMapper(nil)
	doc := mapper.ActionDocument(schema.ActionRecord{
		Slug:       "counterspell",
		Name:       "Counterspell",
		ActionType: "reaction",
		Actions:    1,
	})

	if doc.System["actions"].(map[string]interface{})["value"] != nil {
		t.Error("reaction should carry a nil action cost")
	}
	if doc.Img != "systems/pf2e/icons/actions/Reaction.webp" {
		t.Errorf("Img = %q, want reaction fallback", doc.Img)
	}
}

func TestItemDocumentPrice(t *testing.T) {
	mapper := NewMapper(nil)
	doc := mapper.ItemDocument(schema.ItemRecord{
		Slug:     "flame-tongue",
		Name:     "Flame Tongue",
		ItemType: "weapon",
		Level:    5,
		Price:    "3 gp 5 sp",
		Rarity:   "uncommon",
	})

	if doc.Type != "weapon" {
		t.Errorf("Type = %q, want weapon", doc.Type)
	}
	price := doc.System["price"].(map[string]interface{})["value"].(map[string]interface{})
	want := map[string]interface{}{"gp": 3, "sp": 5}
	if !reflect.DeepEqual(price, want) {
		t.Errorf("price = %v, want %v", price, want)
	}
}

func TestItemDocumentUnknownTypeNormalized(t *testing.T) {
	mapper := NewMapper(nil)
	doc := mapper.ItemDocument(schema.ItemRecord{
		Slug:     "odd-thing",
		Name:     "Odd Thing",
		ItemType: "artifact",
	})
	if doc.Type != "equipment" {
		t.Errorf("Type = %q, want equipment for an unknown item type", doc.Type)
	}
}

func TestPackEntryDocument(t *testing.T) {
	mapper := NewMapper(nil)
	doc := mapper.PackEntryDocument(schema.PackEntryRecord{
		SchemaVersion: 2,
		Slug:          "troll-lore",
		Name:          "Troll Lore",
		Category:      "bestiary",
		Description:   "Everything about trolls.",
		Entries: []schema.PackEntrySubRecord{
			{Name: "Habitat", Description: "Swamps."},
			{Name: "Weakness", Type: "rule", Description: "Fire stops regeneration."},
		},
		Flags: map[string]interface{}{"homebrew": map[string]interface{}{"source": "campaign"}},
	})

	if doc.Type != "journal" {
		t.Errorf("Type = %q, want journal", doc.Type)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("pack entry has %d items, want 2", len(doc.Items))
	}
	if doc.Items[0].Type != "note" {
		t.Errorf("entry without a type = %q, want note default", doc.Items[0].Type)
	}
	if doc.Items[1].Type != "rule" {
		t.Errorf("typed entry = %q, want rule", doc.Items[1].Type)
	}
	if _, ok := doc.Flags["homebrew"]; !ok {
		t.Error("canonical flags not merged into host flags")
	}
	if _, ok := doc.Flags["foundrygen"]; !ok {
		t.Error("provenance flags missing")
	}
}

func TestMapRawRejectsUnknownEntity(t *testing.T) {
	mapper := NewMapper(nil)
	if _, err := mapper.MapRaw(schema.EntityType("ritual"), []byte(`{}`)); err == nil {
		t.Fatal("expected an error for an unknown entity type")
	}
}
