// Package forge composes prompt building, the generation-validation loop,
// migration, and host mapping into one facade producing ready-to-import
// documents, with explicit partial-failure batch aggregation.
package forge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/martinemde/foundrygen/foundry"
	"github.com/martinemde/foundrygen/genloop"
	"github.com/martinemde/foundrygen/migrate"
	"github.com/martinemde/foundrygen/schema"
)

// PromptBuilder turns a user's natural-language input into the base
// generation prompt for an entity type. Correction context is appended by
// the generation loop, so builders stay stateless.
type PromptBuilder interface {
	BuildPrompt(t schema.EntityType, userInput string) string
}

// PersistedRecord is what an Importer reports after writing a document.
type PersistedRecord struct {
	ID      string
	Slug    string
	Created bool
}

// Importer persists host documents, matching existing records by slug to
// decide update versus create. The host owns the final write; this package
// never persists on its own.
type Importer interface {
	Import(ctx context.Context, doc foundry.HostDocument) (*PersistedRecord, error)
}

// Result is one generated entity: the validated canonical record and the
// mapped host document.
type Result struct {
	EntityType schema.EntityType
	Canonical  json.RawMessage
	Document   *foundry.HostDocument
}

// GenerateOptions tune a single generation.
type GenerateOptions struct {
	// Seed is passed through to the remote model, best-effort.
	Seed *int
	// InitialDraft seeds the loop with an existing record. Stale drafts are
	// migrated to the current schema version before validation.
	InitialDraft json.RawMessage
}

// Facade wires the pipeline stages together.
type Facade struct {
	loop    *genloop.Loop
	engine  *migrate.Engine
	mapper  *foundry.Mapper
	builder PromptBuilder
	log     zerolog.Logger
}

// Option configures a Facade.
type Option func(*Facade)

// WithLogger sets the facade logger.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Facade) { f.log = log }
}

// WithPromptBuilder replaces the default prompt builder.
func WithPromptBuilder(b PromptBuilder) Option {
	return func(f *Facade) { f.builder = b }
}

// New creates a Facade.
func New(loop *genloop.Loop, engine *migrate.Engine, mapper *foundry.Mapper, opts ...Option) *Facade {
	f := &Facade{
		loop:    loop,
		engine:  engine,
		mapper:  mapper,
		builder: DefaultPromptBuilder{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Generate runs the full pipeline for one entity: build prompt, migrate a
// stale initial draft if present, loop until valid, map to a host document.
func (f *Facade) Generate(ctx context.Context, t schema.EntityType, userInput string, opts GenerateOptions) (*Result, error) {
	draft := opts.InitialDraft
	if draft != nil && schema.RecordVersion(draft) != schema.CurrentVersion(t) {
		migrated, err := f.engine.MigrateRaw(t, draft)
		if err != nil {
			return nil, err
		}
		draft = migrated
	}

	payload, err := f.loop.Run(ctx, genloop.Request{
		EntityType:   t,
		Prompt:       f.builder.BuildPrompt(t, userInput),
		InitialDraft: draft,
		Seed:         opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	doc, err := f.mapper.MapRaw(t, payload)
	if err != nil {
		return nil, err
	}

	f.log.Info().Str("entity", string(t)).Str("name", doc.Name).Msg("generated document")
	return &Result{EntityType: t, Canonical: payload, Document: doc}, nil
}

// GenerateAction generates one action document.
func (f *Facade) GenerateAction(ctx context.Context, userInput string, opts GenerateOptions) (*Result, error) {
	return f.Generate(ctx, schema.EntityAction, userInput, opts)
}

// GenerateItem generates one item document.
func (f *Facade) GenerateItem(ctx context.Context, userInput string, opts GenerateOptions) (*Result, error) {
	return f.Generate(ctx, schema.EntityItem, userInput, opts)
}

// GenerateActor generates one actor document.
func (f *Facade) GenerateActor(ctx context.Context, userInput string, opts GenerateOptions) (*Result, error) {
	return f.Generate(ctx, schema.EntityActor, userInput, opts)
}

// GeneratePackEntry generates one compendium pack entry document.
func (f *Facade) GeneratePackEntry(ctx context.Context, userInput string, opts GenerateOptions) (*Result, error) {
	return f.Generate(ctx, schema.EntityPackEntry, userInput, opts)
}

// DefaultPromptBuilder ships with the CLI: a plain instruction prompt per
// entity type, no templating.
type DefaultPromptBuilder struct{}

// BuildPrompt implements PromptBuilder.
func (DefaultPromptBuilder) BuildPrompt(t schema.EntityType, userInput string) string {
	var kind string
	switch t {
	case schema.EntityAction:
		kind = "a Pathfinder 2e action or activity"
	case schema.EntityItem:
		kind = "a Pathfinder 2e physical item"
	case schema.EntityActor:
		kind = "a Pathfinder 2e creature, hazard, or loot actor with full statistics"
	case schema.EntityPackEntry:
		kind = "a Pathfinder 2e compendium pack entry grouping related sub-entries"
	default:
		kind = "a Pathfinder 2e game content record"
	}
	return fmt.Sprintf(
		"Create %s as a single JSON record conforming exactly to the provided schema. "+
			"Use concise rules text in the description fields. Request: %s",
		kind, userInput)
}
