package migrate

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/martinemde/foundrygen/schema"
)

func TestMigrateSameVersionReturnsClone(t *testing.T) {
	engine := NewEngine(NewRegistry())
	data := map[string]interface{}{
		"schema_version": float64(2),
		"name":           "Power Attack",
		"traits":         []interface{}{"attack"},
	}

	got, err := engine.Migrate(schema.EntityAction, 2, 2, data)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if !reflect.DeepEqual(got, data) {
		t.Errorf("clone differs from input:\ngot:  %v\nwant: %v", got, data)
	}

	// Mutating the clone must not touch the caller's record.
	got["name"] = "changed"
	got["traits"].([]interface{})[0] = "changed"
	if data["name"] != "Power Attack" || data["traits"].([]interface{})[0] != "attack" {
		t.Error("Migrate returned a shallow copy")
	}

	again, err := engine.Migrate(schema.EntityAction, 2, 2, data)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if !reflect.DeepEqual(again, data) {
		t.Error("repeated no-op migration diverged")
	}
}

func TestMigrateBackwardsAlwaysFails(t *testing.T) {
	engine := NewEngine(NewRegistry())

	_, err := engine.Migrate(schema.EntityActor, 3, 1, map[string]interface{}{"anything": "at all"})
	var migErr *MigrationError
	if !errors.As(err, &migErr) {
		t.Fatalf("error = %v, want *MigrationError", err)
	}
	if migErr.From != 3 || migErr.To != 1 {
		t.Errorf("MigrationError versions = %d->%d, want 3->1", migErr.From, migErr.To)
	}
}

func TestMigrateMissingStepFails(t *testing.T) {
	// A registry with a gap: actor 1->2 registered, 2->3 missing.
	registry := &Registry{steps: map[schema.EntityType]map[int]Step{
		schema.EntityActor: {1: actorV1ToV2},
	}}
	engine := NewEngine(registry)

	_, err := engine.Migrate(schema.EntityActor, 1, 3, map[string]interface{}{"level": float64(2)})
	var migErr *MigrationError
	if !errors.As(err, &migErr) {
		t.Fatalf("error = %v, want *MigrationError", err)
	}
}

func TestMigrateActorV1ToV3(t *testing.T) {
	engine := NewEngine(NewRegistry())
	v1 := map[string]interface{}{
		"schema_version": float64(1),
		"systemId":       "pf2e",
		"type":           "actor",
		"slug":           "swamp-troll",
		"name":           "Swamp Troll",
		"level":          float64(4),
		"description":    "A hungry troll.",
		"skills":         []interface{}{map[string]interface{}{"name": "Athletics", "value": float64(12)}},
		"strikes":        []interface{}{map[string]interface{}{"name": "Claw"}},
	}

	got, err := engine.Migrate(schema.EntityActor, 1, 3, v1)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	attrs := got["attributes"].(map[string]interface{})
	hp := attrs["hp"].(map[string]interface{})
	if hp["value"] != float64(20) {
		t.Errorf("hp.value = %v, want 20 (level*5)", hp["value"])
	}
	if !reflect.DeepEqual(got["skills"], []interface{}{}) {
		t.Errorf("skills = %v, want cleared", got["skills"])
	}
	if !reflect.DeepEqual(got["strikes"], []interface{}{}) {
		t.Errorf("strikes = %v, want cleared", got["strikes"])
	}
	if got["schema_version"] != 3 {
		t.Errorf("schema_version = %v, want 3", got["schema_version"])
	}
	if got["category"] != "creature" {
		t.Errorf("category = %v, want creature", got["category"])
	}
}

func TestMigrateActorV1HitPointFloor(t *testing.T) {
	engine := NewEngine(NewRegistry())

	got, err := engine.Migrate(schema.EntityActor, 1, 2, map[string]interface{}{"level": float64(0)})
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	hp := got["attributes"].(map[string]interface{})["hp"].(map[string]interface{})
	if hp["value"] != float64(1) {
		t.Errorf("hp.value = %v, want floor of 1", hp["value"])
	}
}

func TestMigrateActionV1Defaults(t *testing.T) {
	engine := NewEngine(NewRegistry())
	v1 := map[string]interface{}{
		"schema_version": float64(1),
		"name":           "Shove",
		"traits":         []interface{}{"Attack", " attack ", "", "push"},
	}

	got, err := engine.Migrate(schema.EntityAction, 1, 2, v1)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if got["actionType"] != "action" {
		t.Errorf("actionType = %v, want action", got["actionType"])
	}
	if got["actions"] != float64(1) {
		t.Errorf("actions = %v, want 1", got["actions"])
	}
	if want := []interface{}{"Attack", "push"}; !reflect.DeepEqual(got["traits"], want) {
		t.Errorf("traits = %v, want %v (trimmed, deduped)", got["traits"], want)
	}
}

func TestMigrateRawToCurrentAndValidate(t *testing.T) {
	engine := NewEngine(NewRegistry())
	payload := json.RawMessage(`{
		"schema_version": 1,
		"systemId": "pf2e",
		"type": "actor",
		"slug": "swamp-troll",
		"name": "Swamp Troll",
		"level": 4,
		"description": "A hungry troll."
	}`)

	migrated, err := engine.MigrateRaw(schema.EntityActor, payload)
	if err != nil {
		t.Fatalf("MigrateRaw() error: %v", err)
	}
	if got := schema.RecordVersion(migrated); got != schema.CurrentActorVersion {
		t.Fatalf("migrated version = %d, want %d", got, schema.CurrentActorVersion)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}
	if result := validator.Validate(schema.EntityActor, migrated); !result.Valid {
		t.Errorf("migrated actor fails validation: %s", result.Summary())
	}
}
