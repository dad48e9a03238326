package foundry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/martinemde/foundrygen/schema"
)

// Mapper turns current-version canonical records into host documents.
type Mapper struct {
	cfg *SystemConfig
	rw  *rewriter
}

// NewMapper creates a Mapper over a system configuration. A nil config uses
// the built-in PF2e tables.
func NewMapper(cfg *SystemConfig) *Mapper {
	if cfg == nil {
		cfg = DefaultPF2eConfig()
	}
	return &Mapper{cfg: cfg, rw: newRewriter(cfg)}
}

// MapRaw decodes a raw canonical payload and maps it to a host document.
// The payload must already be at the current schema version.
func (m *Mapper) MapRaw(t schema.EntityType, payload json.RawMessage) (*HostDocument, error) {
	switch t {
	case schema.EntityAction:
		var rec schema.ActionRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("foundry: decoding action record: %w", err)
		}
		doc := m.ActionDocument(rec)
		return &doc, nil
	case schema.EntityItem:
		var rec schema.ItemRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("foundry: decoding item record: %w", err)
		}
		doc := m.ItemDocument(rec)
		return &doc, nil
	case schema.EntityActor:
		var rec schema.ActorRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("foundry: decoding actor record: %w", err)
		}
		doc := m.ActorDocument(rec)
		return &doc, nil
	case schema.EntityPackEntry:
		var rec schema.PackEntryRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("foundry: decoding pack entry record: %w", err)
		}
		doc := m.PackEntryDocument(rec)
		return &doc, nil
	default:
		return nil, fmt.Errorf("foundry: unknown entity type %q", t)
	}
}

// describe renders a description field: emphasis markup, reference
// rewriting, paragraph wrapping, then any demoted-information paragraphs.
func (m *Mapper) describe(text string, extras ...string) string {
	parts := make([]string, 0, 1+len(extras))
	if p := ensureParagraph(m.rw.RewriteRefs(renderEmphasis(text))); p != "" {
		parts = append(parts, p)
	}
	for _, extra := range extras {
		if extra != "" {
			parts = append(parts, "<p>"+extra+"</p>")
		}
	}
	return strings.Join(parts, "\n")
}

func ensureParagraph(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "<") {
		return s
	}
	return "<p>" + s + "</p>"
}

// image prefers the canonical record's image and falls back per category.
func (m *Mapper) image(explicit, category string) string {
	if explicit != "" {
		return explicit
	}
	return m.cfg.fallbackImage(category)
}

// filterKnown splits entries into table hits (preserved verbatim) and
// misses. Misses are never dropped; callers demote them to description text.
func filterKnown(entries []string, table map[string]bool) (known, unknown []string) {
	known = []string{}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e))
		if key == "" {
			continue
		}
		if table[key] {
			known = append(known, e)
		} else {
			unknown = append(unknown, e)
		}
	}
	return known, unknown
}

// demoted renders unrecognized entries as a survivable free-text sentence.
func demoted(label string, entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return "Unlisted " + label + ": " + strings.Join(entries, ", ") + "."
}

// docFlags stamps the generator's provenance flags, merged over any
// canonical flags.
func docFlags(slug string, version int, extra map[string]interface{}) map[string]interface{} {
	flags := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		flags[k] = v
	}
	flags["foundrygen"] = map[string]interface{}{
		"slug":          slug,
		"schemaVersion": version,
	}
	return flags
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
