// Package migrate advances raw canonical records from a recorded schema
// version to the current version through a registered chain of per-version
// pure transforms.
package migrate

import (
	"encoding/json"
	"fmt"

	"github.com/martinemde/foundrygen/schema"
)

// Step transforms a record at one schema version into the next. Steps are
// pure: they receive a private clone and must not depend on process state.
// They operate on loosely-typed records to tolerate older, incomplete shapes.
type Step func(record map[string]interface{}) (map[string]interface{}, error)

// MigrationError signals a data or programming defect in a migration request.
// It is always fatal and never retried.
type MigrationError struct {
	EntityType schema.EntityType
	From       int
	To         int
	Reason     string
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("cannot migrate %s from version %d to %d: %s", e.EntityType, e.From, e.To, e.Reason)
}

// Registry is an explicit, immutable table of migration steps keyed by entity
// type and source version. Construct it once at startup and pass it by
// reference into the Engine.
type Registry struct {
	steps map[schema.EntityType]map[int]Step
}

// NewRegistry builds the registry with all known migration steps.
func NewRegistry() *Registry {
	return &Registry{
		steps: map[schema.EntityType]map[int]Step{
			schema.EntityAction: {
				1: actionV1ToV2,
			},
			schema.EntityItem: {
				1: itemV1ToV2,
			},
			schema.EntityActor: {
				1: actorV1ToV2,
				2: actorV2ToV3,
			},
			schema.EntityPackEntry: {
				1: packEntryV1ToV2,
			},
		},
	}
}

func (r *Registry) step(t schema.EntityType, from int) (Step, bool) {
	versions, ok := r.steps[t]
	if !ok {
		return nil, false
	}
	step, ok := versions[from]
	return step, ok
}

// Engine runs migrations against a registry.
type Engine struct {
	registry *Registry
}

// NewEngine creates an Engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Migrate advances data from version from to version to.
//
// Equal versions return a deep clone with no transformation. Backward
// migration is a hard failure. Forward migration applies every intermediate
// step in order; a missing step at any version is a hard failure, no version
// is ever skipped.
func (e *Engine) Migrate(t schema.EntityType, from, to int, data map[string]interface{}) (map[string]interface{}, error) {
	if from > to {
		return nil, &MigrationError{EntityType: t, From: from, To: to, Reason: "cannot migrate backwards"}
	}

	record, err := deepClone(data)
	if err != nil {
		return nil, &MigrationError{EntityType: t, From: from, To: to, Reason: "record is not JSON-representable: " + err.Error()}
	}
	if from == to {
		return record, nil
	}

	for version := from; version < to; version++ {
		step, ok := e.registry.step(t, version)
		if !ok {
			return nil, &MigrationError{
				EntityType: t, From: from, To: to,
				Reason: fmt.Sprintf("no registered step for version %d", version),
			}
		}
		record, err = step(record)
		if err != nil {
			return nil, &MigrationError{
				EntityType: t, From: from, To: to,
				Reason: fmt.Sprintf("step at version %d failed: %v", version, err),
			}
		}
	}
	return record, nil
}

// MigrateRaw is a convenience over Migrate for JSON payloads: it decodes,
// migrates to the entity's current version, and re-encodes.
func (e *Engine) MigrateRaw(t schema.EntityType, payload json.RawMessage) (json.RawMessage, error) {
	from := schema.RecordVersion(payload)
	to := schema.CurrentVersion(t)

	var record map[string]interface{}
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, &MigrationError{EntityType: t, From: from, To: to, Reason: "payload is not a JSON object: " + err.Error()}
	}

	migrated, err := e.Migrate(t, from, to, record)
	if err != nil {
		return nil, err
	}
	return json.Marshal(migrated)
}

// deepClone copies a record through a JSON round trip so callers' objects are
// never mutated.
func deepClone(record map[string]interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var clone map[string]interface{}
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, err
	}
	if clone == nil {
		clone = map[string]interface{}{}
	}
	return clone, nil
}
