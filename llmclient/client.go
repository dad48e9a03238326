package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Config holds the Request Client configuration, parsed from the environment
// by the caller (caarlos0/env tags).
type Config struct {
	APIKey      string        `env:"FOUNDRYGEN_API_KEY"`
	BaseURL     string        `env:"FOUNDRYGEN_BASE_URL"`
	Model       string        `env:"FOUNDRYGEN_MODEL" envDefault:"gpt-4o"`
	ImageModel  string        `env:"FOUNDRYGEN_IMAGE_MODEL" envDefault:"dall-e-3"`
	Temperature float32       `env:"FOUNDRYGEN_TEMPERATURE" envDefault:"0.2"`
	MaxTokens   int           `env:"FOUNDRYGEN_MAX_TOKENS" envDefault:"4096"`
	Timeout     time.Duration `env:"FOUNDRYGEN_TIMEOUT" envDefault:"120s"`
	Debug       bool          `env:"FOUNDRYGEN_DEBUG"`
}

// completionAPI is the slice of the remote SDK the client depends on. Tests
// substitute a stub; production wires *openai.Client.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// GenerateOptions carries per-call generation parameters.
type GenerateOptions struct {
	// Seed steers the remote sampler toward reproducibility. Best-effort:
	// remote determinism is not guaranteed.
	Seed *int
	// System is an optional system prompt prepended to the conversation.
	System string
}

// ImageOptions carries per-call image generation parameters.
type ImageOptions struct {
	// ReferenceImages are inline source images (raw bytes) guiding the
	// generation. At most MaxReferenceImages are accepted.
	ReferenceImages [][]byte
	// Size is the requested output size, e.g. "1024x1024".
	Size string
}

// ImageResult is a generated image ready for embedding or persistence.
type ImageResult struct {
	Base64        string
	MIMEType      string
	RevisedPrompt string
}

// MaxReferenceImages bounds the inline reference images per request.
const MaxReferenceImages = 16

const (
	methodStructured = "structured"
	methodTool       = "tool"
	methodImage      = "image"
)

// Client issues generation calls against an OpenAI-compatible service,
// selecting the invocation protocol per request.
type Client struct {
	api     completionAPI
	httpc   *http.Client
	catalog *Catalog
	cfg     Config
	log     zerolog.Logger
	tel     *telemetry
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithCatalog injects a capability catalog. Defaults to the built-in table.
func WithCatalog(catalog *Catalog) Option {
	return func(c *Client) { c.catalog = catalog }
}

// WithCompletionAPI substitutes the remote SDK surface, for tests.
func WithCompletionAPI(api completionAPI) Option {
	return func(c *Client) { c.api = api }
}

// WithHTTPClient sets the HTTP client used to fetch remote image URLs.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a Client from configuration.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		catalog: DefaultCatalog(),
		log:     zerolog.Nop(),
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.api == nil {
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = cfg.BaseURL
		}
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		c.api = openai.NewClientWithConfig(apiCfg)
	}
	c.tel = &telemetry{log: c.log, debug: cfg.Debug}
	return c
}

// Model returns the configured generation model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// GenerateWithSchema generates a JSON payload conforming to the given schema.
//
// Mode selection: schemas with a wildcard object node cannot use structured
// mode, so tool-calling mode is mandatory for them. Otherwise structured mode
// is preferred when the model advertises it; a client-side rejection of the
// structured request falls back exactly once to tool mode when supported.
// Capability mismatches fail before any network call.
func (c *Client) GenerateWithSchema(ctx context.Context, prompt string, def SchemaDef, opts GenerateOptions) (json.RawMessage, error) {
	model := c.cfg.Model
	loose := def.HasLooseShape()
	toolCapable := c.catalog.SupportsTools(model)

	if loose && !toolCapable {
		return nil, &CapabilityError{Model: model, Capability: "tool invocation (required for wildcard-property schemas)"}
	}

	normalized := def.NormalizeRequired()

	if !loose && c.catalog.SupportsSchema(model) {
		payload, err := c.complete(ctx, methodStructured, prompt, def, c.structuredRequest(prompt, def, normalized, opts))
		if err == nil {
			return payload, nil
		}
		if toolCapable && isClientRejection(err) {
			c.log.Debug().Str("schema", def.Name).Msg("structured mode rejected, falling back to tool mode")
			return c.complete(ctx, methodTool, prompt, def, c.toolRequest(prompt, def, normalized, opts))
		}
		return nil, err
	}

	if !toolCapable {
		return nil, &CapabilityError{Model: model, Capability: "structured output or tool invocation"}
	}
	return c.complete(ctx, methodTool, prompt, def, c.toolRequest(prompt, def, normalized, opts))
}

// complete runs one chat completion and extracts the JSON payload from it.
func (c *Client) complete(ctx context.Context, method, prompt string, def SchemaDef, req openai.ChatCompletionRequest) (json.RawMessage, error) {
	rec := callRecord{
		ID:          newCallID(),
		Method:      method,
		Schema:      def.Name,
		Fingerprint: fingerprint(prompt),
	}
	start := time.Now()

	resp, err := c.api.CreateChatCompletion(ctx, req)
	rec.Duration = time.Since(start)
	if err != nil {
		rec.Err = &TransportError{Method: method, StatusCode: statusCode(err), Cause: err}
		c.tel.record(rec)
		return nil, rec.Err
	}

	rec.PromptTokens = resp.Usage.PromptTokens
	rec.CompletionTokens = resp.Usage.CompletionTokens

	raw, err := json.Marshal(resp)
	if err != nil {
		rec.Err = &ParseError{Schema: def.Name, Detail: err.Error()}
		c.tel.record(rec)
		return nil, rec.Err
	}

	payload, extractorName, err := extractJSON(raw, def.Name)
	if err != nil {
		rec.Err = err
		c.tel.record(rec)
		return nil, err
	}

	rec.Success = true
	rec.Extractor = extractorName
	c.tel.record(rec)
	return payload, nil
}

func (c *Client) messages(prompt string, opts GenerateOptions) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage
	if opts.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.System,
		})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

func (c *Client) structuredRequest(prompt string, def SchemaDef, normalized map[string]interface{}, opts GenerateOptions) openai.ChatCompletionRequest {
	schemaJSON, _ := json.Marshal(normalized)
	return openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    c.messages(prompt, opts),
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Seed:        opts.Seed,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        def.Name,
				Description: def.Description,
				Schema:      json.RawMessage(schemaJSON),
				Strict:      true,
			},
		},
	}
}

func (c *Client) toolRequest(prompt string, def SchemaDef, normalized map[string]interface{}, opts GenerateOptions) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    c.messages(prompt, opts),
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Seed:        opts.Seed,
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  normalized,
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: def.Name},
		},
	}
}
