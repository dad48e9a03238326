package llmclient

// ModelCapabilities describes what a known model identifier can do.
type ModelCapabilities struct {
	ID              string   `json:"id"`
	Provider        string   `json:"provider"`
	DisplayName     string   `json:"display_name"`
	SupportsSchema  bool     `json:"supports_schema"`
	SupportsTools   bool     `json:"supports_tools"`
	SupportsImages  bool     `json:"supports_images"`
	Aliases         []string `json:"aliases,omitempty"`
}

// defaultModels is the built-in capability table. It covers the model
// identifiers the service is routinely configured with; anything else falls
// through to the assume-supported default in Catalog.
var defaultModels = []ModelCapabilities{
	{
		ID: "gpt-4o", Provider: "openai", DisplayName: "GPT-4o",
		SupportsSchema: true, SupportsTools: true, SupportsImages: false,
		Aliases: []string{"4o"},
	},
	{
		ID: "gpt-4o-mini", Provider: "openai", DisplayName: "GPT-4o Mini",
		SupportsSchema: true, SupportsTools: true, SupportsImages: false,
		Aliases: []string{"4o-mini"},
	},
	{
		ID: "gpt-4.1", Provider: "openai", DisplayName: "GPT-4.1",
		SupportsSchema: true, SupportsTools: true, SupportsImages: false,
	},
	{
		ID: "dall-e-3", Provider: "openai", DisplayName: "DALL-E 3",
		SupportsSchema: false, SupportsTools: false, SupportsImages: true,
		Aliases: []string{"dalle3"},
	},
	{
		ID: "gpt-image-1", Provider: "openai", DisplayName: "GPT Image 1",
		SupportsSchema: false, SupportsTools: false, SupportsImages: true,
	},
	{
		ID: "llama-3.1-70b-instruct", Provider: "openrouter", DisplayName: "Llama 3.1 70B Instruct",
		SupportsSchema: false, SupportsTools: true, SupportsImages: false,
		Aliases: []string{"llama-70b"},
	},
	{
		ID: "llama-3.1-8b-instruct", Provider: "openrouter", DisplayName: "Llama 3.1 8B Instruct",
		SupportsSchema: false, SupportsTools: false, SupportsImages: false,
		Aliases: []string{"llama-8b"},
	},
}

// Catalog is a read-only capability table. It is read-mostly shared state:
// construct it once (or swap wholesale on a configuration refresh) and pass it
// by reference into the Client.
type Catalog struct {
	models []ModelCapabilities
}

// NewCatalog builds a catalog from an explicit model list.
func NewCatalog(models []ModelCapabilities) *Catalog {
	copied := make([]ModelCapabilities, len(models))
	copy(copied, models)
	return &Catalog{models: copied}
}

// DefaultCatalog returns a catalog populated with the built-in table.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultModels)
}

// Lookup returns the capability entry for a model, or nil if unknown.
func (c *Catalog) Lookup(modelID string) *ModelCapabilities {
	for i := range c.models {
		if c.models[i].ID == modelID {
			return &c.models[i]
		}
		for _, alias := range c.models[i].Aliases {
			if alias == modelID {
				return &c.models[i]
			}
		}
	}
	return nil
}

// SupportsSchema reports whether the model advertises structured-schema
// output. Models absent from the catalog are assumed supported so that a
// not-yet-loaded catalog never produces false negatives.
func (c *Catalog) SupportsSchema(modelID string) bool {
	if info := c.Lookup(modelID); info != nil {
		return info.SupportsSchema
	}
	return true
}

// SupportsTools reports whether the model advertises tool invocation.
// Unknown models are assumed supported.
func (c *Catalog) SupportsTools(modelID string) bool {
	if info := c.Lookup(modelID); info != nil {
		return info.SupportsTools
	}
	return true
}

// SupportsImages reports whether the model advertises image generation.
// Unknown models are assumed supported.
func (c *Catalog) SupportsImages(modelID string) bool {
	if info := c.Lookup(modelID); info != nil {
		return info.SupportsImages
	}
	return true
}

// List returns all known models, optionally filtered by provider.
func (c *Catalog) List(provider string) []ModelCapabilities {
	if provider == "" {
		result := make([]ModelCapabilities, len(c.models))
		copy(result, c.models)
		return result
	}
	var result []ModelCapabilities
	for _, m := range c.models {
		if m.Provider == provider {
			result = append(result, m)
		}
	}
	return result
}
