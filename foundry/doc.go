// Package foundry maps current-version canonical records into the nested
// document shape Foundry VTT persists.
//
// # Architecture
//
// The package has three layers:
//
//   - SystemConfig: injected lookup tables for the active game system.
//     Condition identifiers, recognized traits per entity kind, recognized
//     attack effects, and per-category fallback image paths.
//   - rewriter: in-text cross-reference rewriting. Condition mentions and
//     bracket reference glyphs become @UUID macros, difficulty checks and
//     dice expressions in hazard text become @Check and inline-roll macros.
//     Rewriting is idempotent: already-produced macros are protected spans.
//   - Mapper: per-entity document construction. Actors branch by category
//     (creature, hazard, loot) and expand nested sub-records into independent
//     item documents aggregated on the actor.
//
// Mapping is fully deterministic. Identical canonical input produces a
// structurally identical HostDocument: no randomness, no wall-clock values.
// Anomalies in the canonical record (unknown category, unrecognized traits)
// degrade through normalization and demotion to description text, never
// through errors, because a slightly imperfect export beats discarding an
// expensive generation result.
//
// # Quick Start
//
//	mapper := foundry.NewMapper(foundry.DefaultPF2eConfig())
//	doc, err := mapper.MapRaw(schema.EntityActor, payload)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, _ := json.MarshalIndent(doc, "", "  ")
package foundry
