package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationResult is the outcome of checking a payload against a named
// schema: pass/fail plus an ordered list of field-level errors.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// Summary renders the error list as one line per error, suitable for a
// correction prompt.
func (r ValidationResult) Summary() string {
	if r.Valid {
		return ""
	}
	lines := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		lines[i] = "- " + e.String()
	}
	return strings.Join(lines, "\n")
}

// Validator checks JSON payloads against the entity schemas. Construct once;
// safe for concurrent readers.
type Validator struct {
	compiled map[EntityType]*jsonschema.Schema
}

// NewValidator compiles all entity schemas.
func NewValidator() (*Validator, error) {
	compiled := make(map[EntityType]*jsonschema.Schema, len(schemaSources))
	for t, src := range schemaSources {
		url := string(t) + ".schema.json"
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
			return nil, fmt.Errorf("schema: adding %s: %w", t, err)
		}
		sch, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("schema: compiling %s: %w", t, err)
		}
		compiled[t] = sch
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks a raw JSON payload against the schema for the entity type.
func (v *Validator) Validate(t EntityType, payload json.RawMessage) ValidationResult {
	sch, ok := v.compiled[t]
	if !ok {
		return ValidationResult{Errors: []FieldError{{Message: fmt.Sprintf("unknown entity type %q", t)}}}
	}

	var instance interface{}
	if err := json.Unmarshal(payload, &instance); err != nil {
		return ValidationResult{Errors: []FieldError{{Message: "payload is not valid JSON: " + err.Error()}}}
	}

	err := sch.Validate(instance)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ValidationResult{Errors: []FieldError{{Message: err.Error()}}}
	}

	out := ve.BasicOutput()
	var fieldErrors []FieldError
	for _, e := range out.Errors {
		// Skip aggregate entries; keep the leaf failures.
		if e.KeywordLocation == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		fieldErrors = append(fieldErrors, FieldError{
			Path:    instancePath(e.InstanceLocation),
			Message: e.Error,
		})
	}
	if len(fieldErrors) == 0 {
		fieldErrors = []FieldError{{Message: ve.Message}}
	}
	return ValidationResult{Errors: fieldErrors}
}

// instancePath converts a JSON pointer to dotted-path notation.
func instancePath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}
