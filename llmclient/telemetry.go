package llmclient

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundrygen_generation_requests_total",
			Help: "Total number of generation requests to the remote model service.",
		},
		[]string{"method", "schema", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundrygen_generation_request_duration_seconds",
			Help:    "Histogram of generation request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "schema"},
	)
	promptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundrygen_generation_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"method", "schema"},
	)
	completionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundrygen_generation_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"method", "schema"},
	)
)

// callRecord captures the telemetry for one generation call.
type callRecord struct {
	ID               string
	Method           string
	Schema           string
	Fingerprint      string
	Duration         time.Duration
	Success          bool
	PromptTokens     int
	CompletionTokens int
	Extractor        string
	Err              error
}

// telemetry records per-call metrics and debug-gated log events. Recording
// never raises: a telemetry failure must not mask the call outcome.
type telemetry struct {
	log   zerolog.Logger
	debug bool
}

func (t *telemetry) record(rec callRecord) {
	status := "success"
	if !rec.Success {
		status = "error"
	}
	requestsTotal.WithLabelValues(rec.Method, rec.Schema, status).Inc()
	requestDuration.WithLabelValues(rec.Method, rec.Schema).Observe(rec.Duration.Seconds())
	if rec.PromptTokens > 0 {
		promptTokens.WithLabelValues(rec.Method, rec.Schema).Observe(float64(rec.PromptTokens))
	}
	if rec.CompletionTokens > 0 {
		completionTokens.WithLabelValues(rec.Method, rec.Schema).Observe(float64(rec.CompletionTokens))
	}

	if !t.debug {
		return
	}
	event := t.log.Debug().
		Str("call_id", rec.ID).
		Str("method", rec.Method).
		Str("schema", rec.Schema).
		Str("prompt_fingerprint", rec.Fingerprint).
		Dur("duration", rec.Duration).
		Bool("success", rec.Success)
	if rec.Extractor != "" {
		event = event.Str("extractor", rec.Extractor)
	}
	if rec.PromptTokens > 0 || rec.CompletionTokens > 0 {
		event = event.Int("prompt_tokens", rec.PromptTokens).Int("completion_tokens", rec.CompletionTokens)
	}
	if rec.Err != nil {
		event = event.Str("error", rec.Err.Error())
	}
	event.Msg("generation call")
}

func newCallID() string {
	return "call_" + uuid.New().String()[:8]
}

// fingerprint hashes a prompt for telemetry. Raw prompt text is never
// recorded.
func fingerprint(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])[:16]
}
