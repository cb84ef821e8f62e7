package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/missiontoscale/quotla-api/internal/config"
	"github.com/missiontoscale/quotla-api/internal/core/enrich"
	"github.com/missiontoscale/quotla-api/internal/core/ports"
	"github.com/missiontoscale/quotla-api/internal/core/usecase"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/extractor/filetext"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/llm"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/llm/anthropic"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/llm/gemini"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/llm/openai"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/prompts"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/render"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/resilience"
	"github.com/missiontoscale/quotla-api/internal/observability/metrics"
)

const serviceName = "quotla-api"

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	GenerateUC ports.DocumentGenerator
	ExportUC   ports.DocumentExporter
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	primary, err := buildProvider(cfg, cfg.AIProvider)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}

	// A fallback without a credential is treated as not configured rather than
	// failing startup; the text path just loses its second chance.
	fallback, err := buildProvider(cfg, cfg.FallbackAIProvider)
	if err != nil {
		log.Warn("fallback_provider_unavailable", "provider", cfg.FallbackAIProvider, "reason", err.Error())
		fallback = nil
	}

	m := metrics.NewHTTPServerMetrics(serviceName)

	promptStore := prompts.NewStore(cfg.PromptsDir, log)
	exec := resilience.NewExecutor(resilience.DefaultConfig())
	gateway := llm.NewGateway(primary, fallback, promptStore, exec, log)
	gateway.OnFallback(func(primary, fallback string) {
		m.RecordProviderFallback(serviceName, primary, fallback)
	})

	resolver := usecase.NewTypeResolver(gateway, log)
	files := filetext.New(log)
	enricher := enrich.NewEngine(cfg.DefaultTaxRate, cfg.DefaultDeliveryRate)

	generateUC := usecase.NewGenerator(gateway, resolver, files, enricher, log)
	exportUC := usecase.NewExporter(generateUC, render.NewService(log), log)

	return &App{
		Config:     cfg,
		Metrics:    m,
		GenerateUC: generateUC,
		ExportUC:   exportUC,
	}, nil
}

func buildProvider(cfg config.Config, name string) (ports.CompletionProvider, error) {
	timeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second

	switch name {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return openai.New(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			VisionModel: cfg.OpenAIVisionModel,
			Timeout:     timeout,
		}), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return anthropic.New(anthropic.Config{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicBaseURL,
			Model:   cfg.AnthropicModel,
			Timeout: timeout,
		}), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return gemini.New(gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			BaseURL:     cfg.GeminiBaseURL,
			Model:       cfg.GeminiModel,
			VisionModel: cfg.GeminiVisionModel,
			Timeout:     timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
