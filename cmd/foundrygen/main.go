// Command foundrygen generates game content documents from natural-language
// prompts. It prints host documents as JSON; persistence belongs to the host.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/martinemde/foundrygen/forge"
	"github.com/martinemde/foundrygen/foundry"
	"github.com/martinemde/foundrygen/genloop"
	"github.com/martinemde/foundrygen/llmclient"
	"github.com/martinemde/foundrygen/migrate"
	"github.com/martinemde/foundrygen/schema"
)

func main() {
	var (
		entityType = flag.String("type", "action", "entity type: action, item, actor, packEntry")
		outPath    = flag.String("out", "", "write document JSON to this file instead of stdout")
		seed       = flag.Int("seed", 0, "generation seed (0 means unset)")
		attempts   = flag.Int("attempts", genloop.DefaultMaxAttempts, "generation attempt budget per entity")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(log, *entityType, *outPath, *seed, *attempts, flag.Args()); err != nil {
		log.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, entityType, outPath string, seed, attempts int, prompts []string) error {
	if len(prompts) == 0 {
		return fmt.Errorf("no prompts given; usage: foundrygen -type actor \"a swamp troll\"")
	}

	t := schema.EntityType(entityType)
	if schema.CurrentVersion(t) == 0 {
		return fmt.Errorf("unknown entity type %q (want one of: %s)", entityType, joinTypes())
	}

	// .env is optional; real environments configure directly.
	_ = godotenv.Load()

	var cfg llmclient.Config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("FOUNDRYGEN_API_KEY is not set")
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}

	client := llmclient.New(cfg, llmclient.WithLogger(log))
	loop := genloop.New(client, validator,
		genloop.WithMaxAttempts(attempts),
		genloop.WithLogger(log))
	engine := migrate.NewEngine(migrate.NewRegistry())
	mapper := foundry.NewMapper(foundry.DefaultPF2eConfig())
	facade := forge.New(loop, engine, mapper, forge.WithLogger(log))

	opts := forge.GenerateOptions{}
	if seed != 0 {
		opts.Seed = &seed
	}

	ctx := context.Background()

	if len(prompts) == 1 {
		result, err := facade.Generate(ctx, t, prompts[0], opts)
		if err != nil {
			return err
		}
		return emit(outPath, result.Document)
	}

	batch := facade.GenerateBatch(ctx, t, prompts, opts)
	fmt.Println(batch.Summary())

	docs := make([]*foundry.HostDocument, 0, batch.Succeeded)
	for _, outcome := range batch.Outcomes {
		if outcome.Err == nil {
			docs = append(docs, outcome.Result.Document)
		}
	}
	if len(docs) == 0 {
		return fmt.Errorf("all %d generations failed", len(batch.Outcomes))
	}
	return emit(outPath, docs)
}

func emit(outPath string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Println(string(raw))
		return nil
	}
	return os.WriteFile(outPath, append(raw, '\n'), 0o644)
}

func joinTypes() string {
	types := schema.EntityTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
