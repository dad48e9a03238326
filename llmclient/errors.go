package llmclient

import (
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// CapabilityError means the configured model cannot satisfy the requested
// generation mode. It is raised before any network call and is never retried.
type CapabilityError struct {
	Model      string
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("model %q does not support %s", e.Model, e.Capability)
}

// TransportError wraps a remote or network failure. Beyond the single
// structured-to-tool fallback, it is surfaced as-is.
type TransportError struct {
	Method     string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed (status=%d): %v", e.Method, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %v", e.Method, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ParseError means a response was received but no JSON payload could be
// extracted from any of the tolerated shapes.
type ParseError struct {
	Schema string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unable to parse %s response: %s", e.Schema, e.Detail)
	}
	return fmt.Sprintf("unable to parse %s response", e.Schema)
}

// ImageError means an image generation call yielded nothing usable after the
// mixed and image-only attempts.
type ImageError struct {
	Model  string
	Detail string
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image generation with %q produced no image: %s", e.Model, e.Detail)
}

// isClientRejection reports whether a remote error is a client-side rejection
// of the request itself: a 4xx status, or an error message referencing the
// response-format mechanism. These are the only errors that trigger the single
// structured-to-tool fallback.
func isClientRejection(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "response_format") || strings.Contains(msg, "json_schema")
}

// statusCode extracts an HTTP status from a remote error when present.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	return 0
}
