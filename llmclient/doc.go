// Package llmclient issues generation calls against an OpenAI-compatible
// remote model service and turns its heterogeneous responses into plain JSON
// payloads.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Catalog: read-only lookup of which model identifiers support
//     structured-schema output, tool invocation, and image generation.
//   - Client: selects between structured mode and tool-calling mode per
//     request based on schema shape and model capability, with a single
//     structured-to-tool fallback on client-side rejection.
//   - SchemaDef: a named JSON Schema plus the normalization the structured
//     endpoint demands (every declared property forced into required).
//   - Extractors: an ordered chain of independent response probes; the first
//     one that yields valid JSON wins.
//   - Telemetry: per-call prometheus metrics and debug-gated zerolog events.
//     Prompts are recorded as fingerprints, never as raw text.
//
// # Quick Start
//
//	client, _ := llmclient.New(llmclient.Config{APIKey: key, Model: "gpt-4o"})
//
//	payload, err := client.GenerateWithSchema(ctx, prompt, def, llmclient.GenerateOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
package llmclient
