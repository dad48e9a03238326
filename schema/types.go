// Package schema declares the versioned canonical-record schemas for game
// content entities and validates JSON payloads against them.
package schema

// EntityType identifies a generated content entity.
type EntityType string

const (
	EntityAction    EntityType = "action"
	EntityItem      EntityType = "item"
	EntityActor     EntityType = "actor"
	EntityPackEntry EntityType = "packEntry"
)

// SystemID is the game system canonical records target.
const SystemID = "pf2e"

// Current schema versions per entity type. A canonical record must carry the
// current version before it is mapped to a host document; older records go
// through the migration engine first.
const (
	CurrentActionVersion    = 2
	CurrentItemVersion      = 2
	CurrentActorVersion     = 3
	CurrentPackEntryVersion = 2
)

// CurrentVersion returns the current schema version for an entity type, or 0
// for an unknown type.
func CurrentVersion(t EntityType) int {
	switch t {
	case EntityAction:
		return CurrentActionVersion
	case EntityItem:
		return CurrentItemVersion
	case EntityActor:
		return CurrentActorVersion
	case EntityPackEntry:
		return CurrentPackEntryVersion
	default:
		return 0
	}
}

// EntityTypes lists all known entity types.
func EntityTypes() []EntityType {
	return []EntityType{EntityAction, EntityItem, EntityActor, EntityPackEntry}
}

// ActionRecord is the current-version canonical action.
type ActionRecord struct {
	SchemaVersion int      `json:"schema_version"`
	SystemID      string   `json:"systemId"`
	Type          string   `json:"type"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	ActionType    string   `json:"actionType"`
	Actions       int      `json:"actions"`
	Traits        []string `json:"traits"`
	Description   string   `json:"description"`
	Requirements  string   `json:"requirements"`
	Trigger       string   `json:"trigger"`
	Img           string   `json:"img"`
}

// ItemRecord is the current-version canonical item.
type ItemRecord struct {
	SchemaVersion int      `json:"schema_version"`
	SystemID      string   `json:"systemId"`
	Type          string   `json:"type"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	ItemType      string   `json:"itemType"`
	Level         int      `json:"level"`
	Price         string   `json:"price"`
	Rarity        string   `json:"rarity"`
	Traits        []string `json:"traits"`
	Description   string   `json:"description"`
	Bulk          string   `json:"bulk"`
	Usage         string   `json:"usage"`
	Img           string   `json:"img"`
}

// HitPoints is an actor hit point block.
type HitPoints struct {
	Value int `json:"value"`
	Max   int `json:"max"`
	Temp  int `json:"temp"`
}

// ArmorClass is an actor armor class block.
type ArmorClass struct {
	Value int `json:"value"`
}

// Perception is an actor perception block.
type Perception struct {
	Value int `json:"value"`
}

// Speed is an actor speed block.
type Speed struct {
	Value int `json:"value"`
}

// Saves holds the three saving throw modifiers.
type Saves struct {
	Fortitude int `json:"fortitude"`
	Reflex    int `json:"reflex"`
	Will      int `json:"will"`
}

// Attributes is the actor attribute block rebuilt by the v1 to v2 actor
// migration and required at the current version.
type Attributes struct {
	HP         HitPoints  `json:"hp"`
	AC         ArmorClass `json:"ac"`
	Perception Perception `json:"perception"`
	Speed      Speed      `json:"speed"`
	Saves      Saves      `json:"saves"`
}

// Abilities holds the six ability modifiers.
type Abilities struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Con int `json:"con"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
}

// Skill is one trained skill.
type Skill struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Strike is one attack routine.
type Strike struct {
	Name          string   `json:"name"`
	AttackBonus   int      `json:"attackBonus"`
	Damage        string   `json:"damage"`
	DamageType    string   `json:"damageType"`
	Traits        []string `json:"traits"`
	AttackEffects []string `json:"attackEffects"`
}

// SpecialAction is one non-strike action an actor can take.
type SpecialAction struct {
	Name        string `json:"name"`
	ActionType  string `json:"actionType"`
	Actions     int    `json:"actions"`
	Description string `json:"description"`
}

// Spell is one known spell.
type Spell struct {
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Description string `json:"description"`
}

// Spellcasting is an actor's spellcasting entry. Nil means the actor does not
// cast spells.
type Spellcasting struct {
	Tradition string  `json:"tradition"`
	DC        int     `json:"dc"`
	Attack    int     `json:"attack"`
	Spells    []Spell `json:"spells"`
}

// InventoryEntry is one carried item.
type InventoryEntry struct {
	Name        string `json:"name"`
	ItemType    string `json:"itemType"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// Stealth is a hazard stealth block.
type Stealth struct {
	Value   int    `json:"value"`
	Details string `json:"details"`
}

// ActorRecord is the current-version canonical actor. Category selects which
// field groups are meaningful: creatures use the full block, hazards use the
// hazard fields, loot actors use neither.
type ActorRecord struct {
	SchemaVersion  int             `json:"schema_version"`
	SystemID       string          `json:"systemId"`
	Type           string          `json:"type"`
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Level          int             `json:"level"`
	Size           string          `json:"size"`
	Traits         []string        `json:"traits"`
	Description    string          `json:"description"`
	Img            string          `json:"img"`
	Attributes     Attributes      `json:"attributes"`
	Abilities      Abilities       `json:"abilities"`
	Skills         []Skill         `json:"skills"`
	Strikes        []Strike        `json:"strikes"`
	SpecialActions []SpecialAction `json:"specialActions"`
	Spellcasting   *Spellcasting   `json:"spellcasting"`
	Inventory      []InventoryEntry `json:"inventory"`
	Hardness       int             `json:"hardness"`
	Stealth        Stealth         `json:"stealth"`
	Disable        string          `json:"disable"`
	Routine        string          `json:"routine"`
	Reset          string          `json:"reset"`
}

// PackEntrySubRecord is one named entry inside a pack entry.
type PackEntrySubRecord struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// PackEntryRecord is the current-version canonical compendium pack entry. Its
// flags object is intentionally unconstrained, which forces tool-calling mode
// on generation.
type PackEntryRecord struct {
	SchemaVersion int                    `json:"schema_version"`
	SystemID      string                 `json:"systemId"`
	Type          string                 `json:"type"`
	Slug          string                 `json:"slug"`
	Name          string                 `json:"name"`
	Category      string                 `json:"category"`
	Description   string                 `json:"description"`
	Entries       []PackEntrySubRecord   `json:"entries"`
	Flags         map[string]interface{} `json:"flags"`
}
