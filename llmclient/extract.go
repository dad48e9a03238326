package llmclient

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// An extractor probes one response shape for a JSON payload. Extractors are
// independent: each either yields a payload or reports no match, and the chain
// applies them in priority order, taking the first success.
type extractor struct {
	name string
	fn   func(raw gjson.Result) (json.RawMessage, bool)
}

// extractors lists the tolerated response shapes, structured-output shapes
// first, then legacy shapes.
var extractors = []extractor{
	{"content_blocks", extractContentBlocks},
	{"tool_arguments", extractToolArguments},
	{"nested_tool_arguments", extractNestedToolArguments},
	{"legacy_choice_tool_call", extractLegacyChoiceToolCall},
	{"legacy_choice_text", extractLegacyChoiceText},
}

// extractJSON runs the extractor chain over a raw response body and returns
// the first successfully parsed JSON object.
func extractJSON(raw []byte, schemaName string) (json.RawMessage, string, error) {
	parsed := gjson.ParseBytes(raw)
	for _, ex := range extractors {
		if payload, ok := ex.fn(parsed); ok {
			return payload, ex.name, nil
		}
	}
	return nil, "", &ParseError{Schema: schemaName, Detail: "no JSON payload in any recognized response shape"}
}

// extractContentBlocks handles structured output delivered as a block list in
// the message content: [{"type":"json","json":{...}},{"type":"text",...}].
// Blocks of kind json win over blocks of kind text.
func extractContentBlocks(raw gjson.Result) (json.RawMessage, bool) {
	content := raw.Get("choices.0.message.content")
	if !content.Exists() {
		return nil, false
	}
	blocks := gjson.Parse(content.String())
	if !blocks.IsArray() {
		return nil, false
	}
	var textPayload json.RawMessage
	var found bool
	blocks.ForEach(func(_, block gjson.Result) bool {
		switch block.Get("type").String() {
		case "json":
			if payload, ok := asJSONObject(block.Get("json").Raw); ok {
				textPayload = payload
				found = true
				return false
			}
		case "text":
			if !found {
				if payload, ok := firstJSONObject(block.Get("text").String()); ok {
					textPayload = payload
					found = true
				}
			}
		}
		return true
	})
	return textPayload, found
}

// extractToolArguments handles literal JSON text carried as the first tool
// call's arguments. Single-key {"arguments": ...} wrappers are deferred to
// the nested extractor so the chain unwraps them instead of returning the
// wrapper itself.
func extractToolArguments(raw gjson.Result) (json.RawMessage, bool) {
	args := raw.Get("choices.0.message.tool_calls.0.function.arguments")
	if !args.Exists() {
		return nil, false
	}
	payload, ok := asJSONObject(args.String())
	if !ok {
		return nil, false
	}
	parsed := gjson.ParseBytes(payload)
	if len(parsed.Map()) == 1 && parsed.Get("arguments").Exists() {
		return nil, false
	}
	return payload, true
}

// extractNestedToolArguments handles gateways that wrap the payload one level
// deeper: arguments of the form {"arguments": {...}} or {"arguments": "..."},
// with the inner value holding the real record.
func extractNestedToolArguments(raw gjson.Result) (json.RawMessage, bool) {
	args := raw.Get("choices.0.message.tool_calls.0.function.arguments")
	if !args.Exists() {
		return nil, false
	}
	inner := gjson.Get(args.String(), "arguments")
	if !inner.Exists() {
		return nil, false
	}
	if inner.IsObject() {
		return asJSONObject(inner.Raw)
	}
	return asJSONObject(inner.String())
}

// extractLegacyChoiceToolCall scans every choice for tool-call arguments, for
// services that populate a choice other than the first.
func extractLegacyChoiceToolCall(raw gjson.Result) (json.RawMessage, bool) {
	var payload json.RawMessage
	var found bool
	raw.Get("choices").ForEach(func(_, choice gjson.Result) bool {
		choice.Get("message.tool_calls").ForEach(func(_, call gjson.Result) bool {
			if p, ok := asJSONObject(call.Get("function.arguments").String()); ok {
				payload = p
				found = true
				return false
			}
			return true
		})
		return !found
	})
	return payload, found
}

// extractLegacyChoiceText scans every choice's message text for an embedded
// JSON object, tolerating markdown code fences and surrounding prose.
func extractLegacyChoiceText(raw gjson.Result) (json.RawMessage, bool) {
	var payload json.RawMessage
	var found bool
	raw.Get("choices").ForEach(func(_, choice gjson.Result) bool {
		text := choice.Get("message.content").String()
		if p, ok := firstJSONObject(text); ok {
			payload = p
			found = true
			return false
		}
		return true
	})
	return payload, found
}

// asJSONObject validates that s is a JSON object and returns it compacted.
func asJSONObject(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}

// firstJSONObject finds the first balanced JSON object embedded in free text.
func firstJSONObject(text string) (json.RawMessage, bool) {
	text = stripCodeFences(text)
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return nil, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return asJSONObject(text[start : i+1])
			}
		}
	}
	return nil, false
}

func stripCodeFences(text string) string {
	if idx := strings.Index(text, "```"); idx != -1 {
		rest := text[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end != -1 {
			return rest[:end]
		}
		return rest
	}
	return text
}
