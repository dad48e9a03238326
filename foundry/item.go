package foundry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/martinemde/foundrygen/schema"
)

var hostItemTypes = set("weapon", "armor", "shield", "equipment", "consumable", "treasure")

var rarities = set("common", "uncommon", "rare", "unique")

var priceDenom = regexp.MustCompile(`(\d+)\s*(pp|gp|sp|cp)`)

// ItemDocument maps a canonical item into a host physical-item document.
func (m *Mapper) ItemDocument(rec schema.ItemRecord) HostDocument {
	known, unknown := filterKnown(rec.Traits, m.cfg.ItemTraits)
	rarity := rec.Rarity
	if !rarities[rarity] {
		rarity = "common"
	}

	sys := map[string]interface{}{
		"slug":        rec.Slug,
		"level":       map[string]interface{}{"value": rec.Level},
		"price":       map[string]interface{}{"value": parsePrice(rec.Price)},
		"bulk":        map[string]interface{}{"value": rec.Bulk},
		"usage":       map[string]interface{}{"value": rec.Usage},
		"description": map[string]interface{}{"value": m.describe(rec.Description, demoted("traits", unknown))},
		"traits":      map[string]interface{}{"value": known, "rarity": rarity},
	}

	return HostDocument{
		Name:    rec.Name,
		Type:    hostItemType(rec.ItemType),
		Img:     m.image(rec.Img, "item"),
		System:  sys,
		Items:   []HostDocument{},
		Effects: []interface{}{},
		Flags:   docFlags(rec.Slug, rec.SchemaVersion, nil),
	}
}

// hostItemType passes recognized host item types through and normalizes
// anything else to plain equipment.
func hostItemType(itemType string) string {
	if hostItemTypes[itemType] {
		return itemType
	}
	return "equipment"
}

// parsePrice reads denomination pairs out of a free-text price ("12 gp",
// "3 gp 5 sp") into the host's per-coin value map.
func parsePrice(price string) map[string]interface{} {
	coins := map[string]int{}
	for _, match := range priceDenom.FindAllStringSubmatch(strings.ToLower(price), -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		coins[match[2]] += n
	}
	if len(coins) == 0 {
		coins["gp"] = 0
	}
	out := make(map[string]interface{}, len(coins))
	for denom, n := range coins {
		out[denom] = n
	}
	return out
}
