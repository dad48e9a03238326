package foundry

// ConditionRef identifies a condition item in the system's compendium.
type ConditionRef struct {
	ID   string
	Name string
}

// SystemConfig supplies the lookup tables of the active game system. The
// mapper treats it as read-only; construct once and share.
type SystemConfig struct {
	ID string
	// ConditionPack is the compendium holding condition items, e.g.
	// "pf2e.conditionitems".
	ConditionPack string
	// Conditions maps lowercase condition names to compendium references.
	Conditions map[string]ConditionRef
	// Recognized trait tables, keyed by lowercase trait.
	ActionTraits map[string]bool
	ItemTraits   map[string]bool
	ActorTraits  map[string]bool
	// AttackEffects lists recognized strike attack-effect tags.
	AttackEffects map[string]bool
	// FallbackImages maps a document category to the image path used when the
	// canonical record supplies none.
	FallbackImages map[string]string
}

// DefaultPF2eConfig returns the built-in Pathfinder 2e configuration.
func DefaultPF2eConfig() *SystemConfig {
	return &SystemConfig{
		ID:            "pf2e",
		ConditionPack: "pf2e.conditionitems",
		Conditions: map[string]ConditionRef{
			"blinded":     {ID: "XgEqL1kFApUbl5Z2", Name: "Blinded"},
			"clumsy":      {ID: "i3OJZU2nk64Df3xm", Name: "Clumsy"},
			"concealed":   {ID: "DmAIPqOBomZ7H95W", Name: "Concealed"},
			"confused":    {ID: "yblD8fOR1J8rDwEQ", Name: "Confused"},
			"controlled":  {ID: "9qGBRpbX9NEwtAAr", Name: "Controlled"},
			"dazzled":     {ID: "TkIyaNPgTZFBCCuh", Name: "Dazzled"},
			"deafened":    {ID: "9PR9y0bi4JPKnHPR", Name: "Deafened"},
			"doomed":      {ID: "3uh1r86TzbQvosxv", Name: "Doomed"},
			"drained":     {ID: "4D2KBtexWXa6oUMR", Name: "Drained"},
			"dying":       {ID: "yZRUzMqrMmfLu0V1", Name: "Dying"},
			"enfeebled":   {ID: "MIRkyAjyBeXivMa7", Name: "Enfeebled"},
			"fascinated":  {ID: "AdPVz7rbaVSRxHFg", Name: "Fascinated"},
			"fatigued":    {ID: "HL2l2VRSaQHu9lUw", Name: "Fatigued"},
			"flat-footed": {ID: "AJh5ex99aV6VTggg", Name: "Flat-Footed"},
			"fleeing":     {ID: "sDPxOjQ9kx2RZE8D", Name: "Fleeing"},
			"frightened":  {ID: "TBSHQspnbcqxsmjL", Name: "Frightened"},
			"grabbed":     {ID: "kWc1fhmv9LBiTuei", Name: "Grabbed"},
			"immobilized": {ID: "eIcWbB5o3pP6OIMe", Name: "Immobilized"},
			"invisible":   {ID: "zJxUflt9np0q4yML", Name: "Invisible"},
			"paralyzed":   {ID: "6uEgoh53GbXuHpTF", Name: "Paralyzed"},
			"petrified":   {ID: "dTwPJuKgBQCMxixg", Name: "Petrified"},
			"prone":       {ID: "j91X7x0XSomq8d60", Name: "Prone"},
			"quickened":   {ID: "nlCjDvLMf2EkV2dl", Name: "Quickened"},
			"restrained":  {ID: "VcDeM8A5oI6VwhHO", Name: "Restrained"},
			"sickened":    {ID: "fBnFDH2MTzgFijKf", Name: "Sickened"},
			"slowed":      {ID: "xYTAsEpcJE1Ccni3", Name: "Slowed"},
			"stunned":     {ID: "dfCMdR4wnpbYNTix", Name: "Stunned"},
			"stupefied":   {ID: "e1XGnhKNSQIm5IXg", Name: "Stupefied"},
			"unconscious": {ID: "fBnFDH2MTzgFijKe", Name: "Unconscious"},
			"wounded":     {ID: "Yl48xTdMh3aeQYL2", Name: "Wounded"},
		},
		ActionTraits: set(
			"attack", "auditory", "concentrate", "downtime", "emotion",
			"exploration", "fear", "flourish", "fortune", "incapacitation",
			"linguistic", "magical", "manipulate", "mental", "misfortune",
			"move", "open", "press", "secret", "visual",
		),
		ItemTraits: set(
			"agile", "alchemical", "backstabber", "bomb", "consumable",
			"deadly", "disarm", "finesse", "forceful", "grapple", "invested",
			"light", "magical", "nonlethal", "parry", "potion", "precious",
			"reach", "scroll", "shove", "staff", "sweep", "thrown", "trip",
			"two-hand", "versatile", "wand",
		),
		ActorTraits: set(
			"aberration", "air", "amphibious", "animal", "aquatic", "beast",
			"celestial", "construct", "dragon", "dwarf", "earth", "elemental",
			"elf", "fey", "fiend", "fire", "fungus", "giant", "goblin",
			"human", "humanoid", "incorporeal", "mindless", "ooze", "orc",
			"plant", "swarm", "undead", "water",
		),
		AttackEffects: set(
			"constrict", "drain-blood", "grab", "improved-grab",
			"improved-knockdown", "improved-push", "knockdown", "push", "trip",
		),
		FallbackImages: map[string]string{
			"action":            "systems/pf2e/icons/actions/OneAction.webp",
			"reaction":          "systems/pf2e/icons/actions/Reaction.webp",
			"free":              "systems/pf2e/icons/actions/FreeAction.webp",
			"passive":           "systems/pf2e/icons/actions/Passive.webp",
			"item":              "icons/svg/item-bag.svg",
			"creature":          "systems/pf2e/icons/default-icons/npc.svg",
			"hazard":            "systems/pf2e/icons/default-icons/hazard.svg",
			"loot":              "systems/pf2e/icons/default-icons/loot.svg",
			"packEntry":         "icons/svg/book.svg",
			"strike":            "systems/pf2e/icons/default-icons/melee.svg",
			"spell":             "systems/pf2e/icons/default-icons/spell.svg",
			"spellcastingEntry": "systems/pf2e/icons/default-icons/spellcastingEntry.svg",
			"inventory":         "icons/svg/item-bag.svg",
		},
	}
}

// conditionMacro renders the stable-identifier cross-reference for a
// condition.
func (c *SystemConfig) conditionMacro(ref ConditionRef) string {
	return "@UUID[Compendium." + c.ConditionPack + ".Item." + ref.ID + "]{" + ref.Name + "}"
}

// fallbackImage returns the image for a category, or the host's generic
// placeholder when the category has no table entry.
func (c *SystemConfig) fallbackImage(category string) string {
	if img, ok := c.FallbackImages[category]; ok {
		return img
	}
	return "icons/svg/mystery-man.svg"
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
