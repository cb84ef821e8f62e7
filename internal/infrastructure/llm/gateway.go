package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/ports"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/resilience"
)

// Token budgets per call type: extraction needs room for full item lists,
// classification is a one-line verdict and gets a tight budget to discourage
// verbose preambles.
const (
	extractMaxTokens = 1500
	detectMaxTokens  = 200
)

const detectionTemplateName = "document_type_detection"

// ErrDetectionTemplateNotFound makes a missing classification template a
// visible failure; the resolver degrades to its keyword heuristic on it.
var ErrDetectionTemplateNotFound = errors.New("document type detection template not found")

// Gateway presents one uniform extraction capability over interchangeable AI
// backends. Only the plain-text path carries primary/fallback failover; image
// and document intake run against the primary alone.
type Gateway struct {
	primary    ports.CompletionProvider
	fallback   ports.CompletionProvider // nil when not configured
	prompts    ports.PromptStore
	exec       *resilience.Executor
	log        *slog.Logger
	onFallback func(primary, fallback string)
}

func NewGateway(
	primary ports.CompletionProvider,
	fallback ports.CompletionProvider,
	prompts ports.PromptStore,
	exec *resilience.Executor,
	log *slog.Logger,
) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		primary:  primary,
		fallback: fallback,
		prompts:  prompts,
		exec:     exec,
		log:      log,
	}
}

// OnFallback registers an observer invoked every time the text path falls
// back to the secondary provider.
func (g *Gateway) OnFallback(fn func(primary, fallback string)) {
	g.onFallback = fn
}

// ExtractFromText attempts the primary provider and, on ANY failure including
// a malformed completion, retries once against the configured fallback. When
// both fail the returned error embeds both causes.
func (g *Gateway) ExtractFromText(
	ctx context.Context,
	prompt string,
	history []domain.ConversationTurn,
	docType domain.DocumentType,
) (domain.RawExtraction, error) {
	req := ports.CompletionRequest{
		SystemPrompt: g.extractionPrompt(docType),
		History:      history,
		UserMessage:  prompt,
		MaxTokens:    extractMaxTokens,
	}

	raw, primaryErr := g.extractWith(ctx, g.primary, req)
	if primaryErr == nil {
		return raw, nil
	}
	if g.fallback == nil || g.fallback.Name() == g.primary.Name() {
		return nil, primaryErr
	}

	g.log.Warn("provider_fallback",
		"primary", g.primary.Name(),
		"fallback", g.fallback.Name(),
		"error", primaryErr,
	)
	if g.onFallback != nil {
		g.onFallback(g.primary.Name(), g.fallback.Name())
	}

	raw, fallbackErr := g.extractWith(ctx, g.fallback, req)
	if fallbackErr == nil {
		return raw, nil
	}
	return nil, &BothProvidersFailedError{
		Primary:     g.primary.Name(),
		Fallback:    g.fallback.Name(),
		PrimaryErr:  primaryErr,
		FallbackErr: fallbackErr,
	}
}

// ExtractFromDocument runs pre-extracted file text through the text path on
// the primary provider only, with no conversation history and no failover.
func (g *Gateway) ExtractFromDocument(
	ctx context.Context,
	prompt, documentText string,
	docType domain.DocumentType,
) (domain.RawExtraction, error) {
	return g.extractWith(ctx, g.primary, ports.CompletionRequest{
		SystemPrompt: g.extractionPrompt(docType),
		UserMessage:  prompt + "\n\nDocument content:\n" + documentText,
		MaxTokens:    extractMaxTokens,
	})
}

// ExtractFromImage uses the primary provider's vision path, no failover.
func (g *Gateway) ExtractFromImage(
	ctx context.Context,
	prompt string,
	image []byte,
	docType domain.DocumentType,
) (domain.RawExtraction, error) {
	system := g.extractionPrompt(docType)

	var content string
	op := g.primary.Name() + ".complete_with_image"
	err := g.exec.Execute(ctx, op, func(ctx context.Context) error {
		var callErr error
		content, callErr = g.primary.CompleteWithImage(ctx, system, prompt, image)
		return callErr
	}, classifyProviderError)
	if err != nil {
		return nil, err
	}
	return Normalize(content)
}

// DetectType classifies the prompt as invoice, quote, or conversation. A
// missing template is an error here; the caller owns the degraded path.
func (g *Gateway) DetectType(ctx context.Context, prompt string) (domain.TypeDetection, error) {
	template, ok := g.prompts.Load(detectionTemplateName)
	if !ok {
		return domain.TypeDetection{}, ErrDetectionTemplateNotFound
	}
	detectionPrompt := strings.ReplaceAll(template, "{prompt}", prompt)

	var content string
	op := g.primary.Name() + ".complete"
	err := g.exec.Execute(ctx, op, func(ctx context.Context) error {
		var callErr error
		content, callErr = g.primary.Complete(ctx, ports.CompletionRequest{
			UserMessage: detectionPrompt,
			MaxTokens:   detectMaxTokens,
		})
		return callErr
	}, classifyProviderError)
	if err != nil {
		return domain.TypeDetection{}, err
	}

	raw, err := Normalize(content)
	if err != nil {
		return domain.TypeDetection{}, err
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return domain.TypeDetection{}, fmt.Errorf("re-encode detection result: %w", err)
	}
	var detection domain.TypeDetection
	if err := json.Unmarshal(encoded, &detection); err != nil {
		return domain.TypeDetection{}, fmt.Errorf("parse detection result: %w", err)
	}
	return detection, nil
}

func (g *Gateway) extractWith(
	ctx context.Context,
	provider ports.CompletionProvider,
	req ports.CompletionRequest,
) (domain.RawExtraction, error) {
	var content string
	op := provider.Name() + ".complete"
	err := g.exec.Execute(ctx, op, func(ctx context.Context) error {
		var callErr error
		content, callErr = provider.Complete(ctx, req)
		return callErr
	}, classifyProviderError)
	if err != nil {
		return nil, err
	}

	// A completion that cannot be normalized counts as an extraction failure,
	// which is what lets the text path fail over on junk output.
	return Normalize(content)
}

func (g *Gateway) extractionPrompt(docType domain.DocumentType) string {
	if template, ok := g.prompts.Load(string(docType) + "_prompt"); ok {
		return template
	}
	return defaultExtractionPrompt(docType)
}
