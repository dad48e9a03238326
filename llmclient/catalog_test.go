package llmclient

import "testing"

func TestCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()

	if info := catalog.Lookup("gpt-4o"); info == nil || info.DisplayName != "GPT-4o" {
		t.Errorf("Lookup(gpt-4o) = %+v, want GPT-4o entry", info)
	}
	if info := catalog.Lookup("4o-mini"); info == nil || info.ID != "gpt-4o-mini" {
		t.Errorf("Lookup by alias 4o-mini = %+v, want gpt-4o-mini entry", info)
	}
	if info := catalog.Lookup("no-such-model"); info != nil {
		t.Errorf("Lookup(no-such-model) = %+v, want nil", info)
	}
}

func TestCatalogUnknownModelsAssumeSupported(t *testing.T) {
	catalog := DefaultCatalog()

	if !catalog.SupportsSchema("brand-new-model") {
		t.Error("unknown model should assume schema support")
	}
	if !catalog.SupportsTools("brand-new-model") {
		t.Error("unknown model should assume tool support")
	}
	if !catalog.SupportsImages("brand-new-model") {
		t.Error("unknown model should assume image support")
	}
}

func TestCatalogKnownCapabilities(t *testing.T) {
	catalog := DefaultCatalog()

	if catalog.SupportsSchema("llama-3.1-70b-instruct") {
		t.Error("llama-3.1-70b-instruct should not advertise schema support")
	}
	if !catalog.SupportsTools("llama-3.1-70b-instruct") {
		t.Error("llama-3.1-70b-instruct should advertise tool support")
	}
	if catalog.SupportsTools("llama-3.1-8b-instruct") {
		t.Error("llama-3.1-8b-instruct should not advertise tool support")
	}
	if !catalog.SupportsImages("dall-e-3") {
		t.Error("dall-e-3 should advertise image support")
	}
}

func TestCatalogListByProvider(t *testing.T) {
	catalog := DefaultCatalog()

	openrouter := catalog.List("openrouter")
	if len(openrouter) != 2 {
		t.Fatalf("List(openrouter) returned %d models, want 2", len(openrouter))
	}
	for _, m := range openrouter {
		if m.Provider != "openrouter" {
			t.Errorf("List(openrouter) included provider %q", m.Provider)
		}
	}

	all := catalog.List("")
	if len(all) != len(defaultModels) {
		t.Errorf("List(\"\") returned %d models, want %d", len(all), len(defaultModels))
	}
}
