package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	AIProvider         string
	FallbackAIProvider string

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAIVisionModel string

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string

	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiModel       string
	GeminiVisionModel string

	ProviderTimeoutSeconds int

	DefaultTaxRate      float64
	DefaultDeliveryRate float64

	PromptsDir string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		AIProvider:         mustEnv("AI_PROVIDER", "openai"),
		FallbackAIProvider: mustEnv("FALLBACK_AI_PROVIDER", "gemini"),

		OpenAIAPIKey:      mustEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     mustEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:       mustEnv("OPENAI_MODEL", "gpt-4"),
		OpenAIVisionModel: mustEnv("OPENAI_VISION_MODEL", "gpt-4o"),

		AnthropicAPIKey:  mustEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: mustEnv("ANTHROPIC_BASE_URL", ""),
		AnthropicModel:   mustEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),

		GeminiAPIKey:      mustEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:     mustEnv("GEMINI_BASE_URL", ""),
		GeminiModel:       mustEnv("GEMINI_MODEL", "gemini-pro"),
		GeminiVisionModel: mustEnv("GEMINI_VISION_MODEL", "gemini-1.5-flash"),

		ProviderTimeoutSeconds: mustEnvInt("PROVIDER_TIMEOUT_SECONDS", 120),

		DefaultTaxRate:      mustEnvFloat("DEFAULT_TAX_RATE", 7.5),
		DefaultDeliveryRate: mustEnvFloat("DEFAULT_DELIVERY_RATE", 3.0),

		PromptsDir: mustEnv("PROMPTS_DIR", "./prompts"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
