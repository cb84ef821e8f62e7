package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q", cfg.APIPort)
	}
	if cfg.AIProvider != "openai" || cfg.FallbackAIProvider != "gemini" {
		t.Fatalf("providers = %q / %q", cfg.AIProvider, cfg.FallbackAIProvider)
	}
	if cfg.DefaultTaxRate != 7.5 {
		t.Fatalf("DefaultTaxRate = %v", cfg.DefaultTaxRate)
	}
	if cfg.DefaultDeliveryRate != 3.0 {
		t.Fatalf("DefaultDeliveryRate = %v", cfg.DefaultDeliveryRate)
	}
	if cfg.PromptsDir != "./prompts" {
		t.Fatalf("PromptsDir = %q", cfg.PromptsDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("DEFAULT_TAX_RATE", "12.5")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "30")

	cfg := Load()
	if cfg.AIProvider != "anthropic" {
		t.Fatalf("AIProvider = %q", cfg.AIProvider)
	}
	if cfg.DefaultTaxRate != 12.5 {
		t.Fatalf("DefaultTaxRate = %v", cfg.DefaultTaxRate)
	}
	if cfg.ProviderTimeoutSeconds != 30 {
		t.Fatalf("ProviderTimeoutSeconds = %v", cfg.ProviderTimeoutSeconds)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("DEFAULT_TAX_RATE", "seven point five")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "soon")

	cfg := Load()
	if cfg.DefaultTaxRate != 7.5 {
		t.Fatalf("DefaultTaxRate = %v, want fallback", cfg.DefaultTaxRate)
	}
	if cfg.ProviderTimeoutSeconds != 120 {
		t.Fatalf("ProviderTimeoutSeconds = %v, want fallback", cfg.ProviderTimeoutSeconds)
	}
}
