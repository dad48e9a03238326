// Package genloop orchestrates bounded retry of generate, validate, correct
// until a schema-valid payload emerges or the attempt budget is exhausted.
package genloop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/martinemde/foundrygen/llmclient"
	"github.com/martinemde/foundrygen/schema"
)

// DefaultMaxAttempts is the generation call budget per entity.
const DefaultMaxAttempts = 3

// Generator produces one schema-conforming draft per call. *llmclient.Client
// satisfies this; tests substitute stubs.
type Generator interface {
	GenerateWithSchema(ctx context.Context, prompt string, def llmclient.SchemaDef, opts llmclient.GenerateOptions) (json.RawMessage, error)
}

// CorrectionContext carries what the repair prompt needs: a summary of the
// validation failures and the rejected draft.
type CorrectionContext struct {
	Summary       string
	PreviousDraft json.RawMessage
}

// ValidationFailedError is raised when the attempt budget is exhausted
// without producing a valid payload.
type ValidationFailedError struct {
	EntityType schema.EntityType
	Attempts   int
	Errors     []schema.FieldError
}

func (e *ValidationFailedError) Error() string {
	details := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		details[i] = fe.String()
	}
	return fmt.Sprintf("%s generation failed validation after %d attempts: %s",
		e.EntityType, e.Attempts, strings.Join(details, "; "))
}

// Request describes one loop run.
type Request struct {
	EntityType schema.EntityType
	// Prompt is the base generation prompt from the prompt builder.
	Prompt string
	// InitialDraft, when non-nil, is validated before any generation call.
	// A valid initial draft returns without consuming the budget.
	InitialDraft json.RawMessage
	// Seed is passed through to every generation call so that the same seed
	// plus the same correction context steers the model toward a fix.
	// Best-effort only; the loop's own state machine is deterministic
	// regardless of remote stability.
	Seed   *int
	System string
}

// Loop runs the generation-validation cycle. Attempts are strictly
// sequential: attempt N+1 starts only after attempt N's validation outcome is
// known.
type Loop struct {
	generator   Generator
	validator   *schema.Validator
	maxAttempts int
	log         zerolog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithMaxAttempts overrides the generation call budget.
func WithMaxAttempts(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithLogger sets the loop logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// New creates a Loop.
func New(generator Generator, validator *schema.Validator, opts ...Option) *Loop {
	l := &Loop{
		generator:   generator,
		validator:   validator,
		maxAttempts: DefaultMaxAttempts,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes the loop and returns the first valid payload.
func (l *Loop) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	def, err := schema.Def(req.EntityType)
	if err != nil {
		return nil, err
	}

	var correction *CorrectionContext
	var lastErrors []schema.FieldError

	if req.InitialDraft != nil {
		result := l.validator.Validate(req.EntityType, req.InitialDraft)
		if result.Valid {
			return req.InitialDraft, nil
		}
		correction = &CorrectionContext{Summary: result.Summary(), PreviousDraft: req.InitialDraft}
		lastErrors = result.Errors
	}

	opts := llmclient.GenerateOptions{Seed: req.Seed, System: req.System}

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		prompt := req.Prompt
		if correction != nil {
			prompt = correctionPrompt(req.Prompt, *correction)
		}

		draft, err := l.generator.GenerateWithSchema(ctx, prompt, def, opts)
		if err != nil {
			var parseErr *llmclient.ParseError
			if errors.As(err, &parseErr) {
				// A parse failure is fatal for this attempt only: retry with
				// a note, there is no draft to correct.
				l.log.Debug().Str("entity", string(req.EntityType)).Int("attempt", attempt).
					Msg("response unparseable, retrying")
				correction = &CorrectionContext{Summary: "- previous response was not parseable JSON"}
				lastErrors = []schema.FieldError{{Message: err.Error()}}
				continue
			}
			return nil, err
		}

		result := l.validator.Validate(req.EntityType, draft)
		if result.Valid {
			return draft, nil
		}

		l.log.Debug().Str("entity", string(req.EntityType)).Int("attempt", attempt).
			Int("errors", len(result.Errors)).Msg("draft failed validation")
		correction = &CorrectionContext{Summary: result.Summary(), PreviousDraft: draft}
		lastErrors = result.Errors
	}

	return nil, &ValidationFailedError{
		EntityType: req.EntityType,
		Attempts:   l.maxAttempts,
		Errors:     lastErrors,
	}
}

// correctionPrompt extends the base prompt with the repair context.
func correctionPrompt(base string, cc CorrectionContext) string {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\nYour previous draft failed validation with these errors:\n")
	sb.WriteString(cc.Summary)
	if len(cc.PreviousDraft) > 0 {
		sb.WriteString("\n\nPrevious draft:\n")
		sb.Write(cc.PreviousDraft)
	}
	sb.WriteString("\n\nProduce a corrected record that fixes every error.")
	return sb.String()
}
