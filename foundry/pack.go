package foundry

import "github.com/martinemde/foundrygen/schema"

// PackEntryDocument maps a canonical compendium pack entry into a
// journal-style host document. Each sub-entry becomes a page-like child
// document; canonical flags merge into the host flags under their own keys.
func (m *Mapper) PackEntryDocument(rec schema.PackEntryRecord) HostDocument {
	sys := map[string]interface{}{
		"slug":        rec.Slug,
		"category":    rec.Category,
		"description": map[string]interface{}{"value": m.describe(rec.Description)},
	}

	items := []HostDocument{}
	for _, entry := range rec.Entries {
		entryType := entry.Type
		if entryType == "" {
			entryType = "note"
		}
		items = append(items, HostDocument{
			Name: entry.Name,
			Type: entryType,
			Img:  m.cfg.fallbackImage("packEntry"),
			System: map[string]interface{}{
				"description": map[string]interface{}{"value": m.describe(entry.Description)},
			},
			Items:   []HostDocument{},
			Effects: []interface{}{},
		})
	}

	return HostDocument{
		Name:    rec.Name,
		Type:    "journal",
		Img:     m.cfg.fallbackImage("packEntry"),
		System:  sys,
		Items:   items,
		Effects: []interface{}{},
		Flags:   docFlags(rec.Slug, rec.SchemaVersion, rec.Flags),
	}
}
