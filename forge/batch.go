package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/martinemde/foundrygen/schema"
)

// ItemOutcome records one batch member's result or failure reason.
type ItemOutcome struct {
	Index  int
	Input  string
	Result *Result
	Err    error
}

// BatchResult aggregates per-item outcomes after every pipeline has
// settled.
type BatchResult struct {
	RunID      string
	EntityType schema.EntityType
	Outcomes   []ItemOutcome
	Succeeded  int
	Failed     int
}

// Summary renders the one-line report plus one reason per failure.
func (b *BatchResult) Summary() string {
	lines := []string{fmt.Sprintf("Processed %d %s: %d succeeded, %d failed",
		len(b.Outcomes), b.EntityType, b.Succeeded, b.Failed)}
	for _, o := range b.Outcomes {
		if o.Err != nil {
			lines = append(lines, fmt.Sprintf("- %q: %v", o.Input, o.Err))
		}
	}
	return strings.Join(lines, "\n")
}

// GenerateBatch runs each input through an independent pipeline. A failure
// never aborts sibling pipelines: every input is attempted, its outcome
// recorded, and the results aggregated.
func (f *Facade) GenerateBatch(ctx context.Context, t schema.EntityType, inputs []string, opts GenerateOptions) *BatchResult {
	batch := &BatchResult{
		RunID:      uuid.NewString(),
		EntityType: t,
		Outcomes:   make([]ItemOutcome, 0, len(inputs)),
	}

	for i, input := range inputs {
		result, err := f.Generate(ctx, t, input, opts)
		if err != nil {
			batch.Failed++
			f.log.Warn().Str("run", batch.RunID).Str("entity", string(t)).
				Str("input", input).Err(err).Msg("batch item failed")
		} else {
			batch.Succeeded++
		}
		batch.Outcomes = append(batch.Outcomes, ItemOutcome{Index: i, Input: input, Result: result, Err: err})
	}
	return batch
}
