package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/ports"
	"github.com/missiontoscale/quotla-api/internal/infrastructure/resilience"
)

type providerFake struct {
	name       string
	response   string
	err        error
	calls      int
	imageCalls int
	lastReq    ports.CompletionRequest
}

func (f *providerFake) Name() string { return f.name }

func (f *providerFake) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *providerFake) CompleteWithImage(context.Context, string, string, []byte) (string, error) {
	f.imageCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type promptStoreFake struct {
	templates map[string]string
}

func (f *promptStoreFake) Load(name string) (string, bool) {
	tmpl, ok := f.templates[name]
	return tmpl, ok
}

func noRetryExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: 1,
		BreakerEnabled:   false,
	})
}

func newTestGateway(primary, fallback ports.CompletionProvider, templates map[string]string) *Gateway {
	return NewGateway(primary, fallback, &promptStoreFake{templates: templates}, noRetryExecutor(), nil)
}

func TestExtractFromTextUsesPrimaryFirst(t *testing.T) {
	primary := &providerFake{name: "openai", response: `{"currency": "NGN"}`}
	fallback := &providerFake{name: "gemini", response: `{"currency": "USD"}`}
	gw := newTestGateway(primary, fallback, nil)

	raw, err := gw.ExtractFromText(context.Background(), "invoice for John", nil, domain.TypeInvoice)
	if err != nil {
		t.Fatalf("ExtractFromText() error = %v", err)
	}
	if cur, _ := raw.Currency(); cur != "NGN" {
		t.Fatalf("currency = %q, want primary result NGN", cur)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not be called when primary succeeds, got %d calls", fallback.calls)
	}
}

func TestExtractFromTextFailsOverOnProviderError(t *testing.T) {
	primary := &providerFake{name: "openai", err: errors.New("quota exceeded")}
	fallback := &providerFake{name: "gemini", response: "```json\n{\"currency\": \"USD\"}\n```"}
	gw := newTestGateway(primary, fallback, nil)

	raw, err := gw.ExtractFromText(context.Background(), "quote for Jane", nil, domain.TypeQuote)
	if err != nil {
		t.Fatalf("ExtractFromText() error = %v", err)
	}
	if cur, _ := raw.Currency(); cur != "USD" {
		t.Fatalf("currency = %q, want fallback result USD", cur)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("calls primary=%d fallback=%d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestExtractFromTextFailsOverOnMalformedOutput(t *testing.T) {
	primary := &providerFake{name: "openai", response: "I'm sorry, I can't produce that."}
	fallback := &providerFake{name: "gemini", response: `{"currency": "EUR"}`}
	gw := newTestGateway(primary, fallback, nil)

	raw, err := gw.ExtractFromText(context.Background(), "quote", nil, domain.TypeQuote)
	if err != nil {
		t.Fatalf("ExtractFromText() error = %v", err)
	}
	if cur, _ := raw.Currency(); cur != "EUR" {
		t.Fatalf("currency = %q, want EUR from fallback", cur)
	}
}

func TestExtractFromTextBothFailingEmbedsBothErrors(t *testing.T) {
	primary := &providerFake{name: "openai", err: errors.New("rate limited")}
	fallback := &providerFake{name: "gemini", err: errors.New("invalid api key")}
	gw := newTestGateway(primary, fallback, nil)

	_, err := gw.ExtractFromText(context.Background(), "invoice", nil, domain.TypeInvoice)

	var both *BothProvidersFailedError
	if !errors.As(err, &both) {
		t.Fatalf("error = %v, want BothProvidersFailedError", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "rate limited") || !strings.Contains(msg, "invalid api key") {
		t.Fatalf("error must carry both causes: %q", msg)
	}
	if !strings.Contains(msg, "openai") || !strings.Contains(msg, "gemini") {
		t.Fatalf("error must name both providers: %q", msg)
	}
}

func TestExtractFromTextSkipsIdenticalFallback(t *testing.T) {
	primary := &providerFake{name: "openai", err: errors.New("down")}
	fallback := &providerFake{name: "openai", response: `{"currency": "NGN"}`}
	gw := newTestGateway(primary, fallback, nil)

	_, err := gw.ExtractFromText(context.Background(), "invoice", nil, domain.TypeInvoice)
	if err == nil {
		t.Fatal("expected primary error to surface when fallback is the same provider")
	}
	if fallback.calls != 0 {
		t.Fatalf("identical fallback must not be called, got %d calls", fallback.calls)
	}
}

func TestExtractFromTextWithoutFallbackSurfacesPrimaryError(t *testing.T) {
	boom := errors.New("down")
	primary := &providerFake{name: "openai", err: boom}
	gw := newTestGateway(primary, nil, nil)

	_, err := gw.ExtractFromText(context.Background(), "invoice", nil, domain.TypeInvoice)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want primary cause", err)
	}
}

func TestExtractFromDocumentNeverFailsOver(t *testing.T) {
	primary := &providerFake{name: "openai", err: errors.New("down")}
	fallback := &providerFake{name: "gemini", response: `{"currency": "NGN"}`}
	gw := newTestGateway(primary, fallback, nil)

	_, err := gw.ExtractFromDocument(context.Background(), "extract this", "Invoice text", domain.TypeInvoice)
	if err == nil {
		t.Fatal("expected error from primary")
	}
	if fallback.calls != 0 {
		t.Fatalf("document path must not fail over, fallback calls = %d", fallback.calls)
	}
}

func TestExtractFromDocumentCombinesPromptAndText(t *testing.T) {
	primary := &providerFake{name: "openai", response: `{"currency": "NGN"}`}
	gw := newTestGateway(primary, nil, nil)

	if _, err := gw.ExtractFromDocument(context.Background(), "extract this", "Invoice #42 for Acme", domain.TypeInvoice); err != nil {
		t.Fatalf("ExtractFromDocument() error = %v", err)
	}
	if !strings.Contains(primary.lastReq.UserMessage, "Document content:\nInvoice #42 for Acme") {
		t.Fatalf("document text not appended to prompt: %q", primary.lastReq.UserMessage)
	}
}

func TestExtractFromImageUsesVisionPath(t *testing.T) {
	primary := &providerFake{name: "openai", response: `{"currency": "NGN"}`}
	gw := newTestGateway(primary, nil, nil)

	raw, err := gw.ExtractFromImage(context.Background(), "read this receipt", []byte{0xFF, 0xD8}, domain.TypeInvoice)
	if err != nil {
		t.Fatalf("ExtractFromImage() error = %v", err)
	}
	if cur, _ := raw.Currency(); cur != "NGN" {
		t.Fatalf("currency = %q", cur)
	}
	if primary.imageCalls != 1 || primary.calls != 0 {
		t.Fatalf("expected exactly one vision call, got image=%d text=%d", primary.imageCalls, primary.calls)
	}
}

func TestDetectTypeSubstitutesPromptPlaceholder(t *testing.T) {
	primary := &providerFake{name: "openai", response: `{"document_type": "invoice"}`}
	gw := newTestGateway(primary, nil, map[string]string{
		detectionTemplateName: "Classify this request: {prompt}",
	})

	det, err := gw.DetectType(context.Background(), "bill Acme for 10 units")
	if err != nil {
		t.Fatalf("DetectType() error = %v", err)
	}
	if det.DocumentType != "invoice" {
		t.Fatalf("document type = %q", det.DocumentType)
	}
	if !strings.Contains(primary.lastReq.UserMessage, "bill Acme for 10 units") {
		t.Fatalf("prompt placeholder not substituted: %q", primary.lastReq.UserMessage)
	}
	if primary.lastReq.MaxTokens != detectMaxTokens {
		t.Fatalf("detection budget = %d, want %d", primary.lastReq.MaxTokens, detectMaxTokens)
	}
}

func TestDetectTypeParsesConversation(t *testing.T) {
	primary := &providerFake{name: "openai", response: `{"document_type": "conversation", "message": "Hi! Describe the invoice you need."}`}
	gw := newTestGateway(primary, nil, map[string]string{detectionTemplateName: "{prompt}"})

	det, err := gw.DetectType(context.Background(), "hello")
	if err != nil {
		t.Fatalf("DetectType() error = %v", err)
	}
	if det.DocumentType != "conversation" || det.Message == "" {
		t.Fatalf("unexpected detection: %+v", det)
	}
}

func TestDetectTypeMissingTemplate(t *testing.T) {
	primary := &providerFake{name: "openai", response: `{"document_type": "invoice"}`}
	gw := newTestGateway(primary, nil, nil)

	_, err := gw.DetectType(context.Background(), "anything")
	if !errors.Is(err, ErrDetectionTemplateNotFound) {
		t.Fatalf("error = %v, want ErrDetectionTemplateNotFound", err)
	}
	if primary.calls != 0 {
		t.Fatalf("no provider call expected without a template, got %d", primary.calls)
	}
}

func TestExtractionBudgetIsFixed(t *testing.T) {
	primary := &providerFake{name: "openai", response: `{"currency": "NGN"}`}
	gw := newTestGateway(primary, nil, nil)

	if _, err := gw.ExtractFromText(context.Background(), "invoice", nil, domain.TypeInvoice); err != nil {
		t.Fatalf("ExtractFromText() error = %v", err)
	}
	if primary.lastReq.MaxTokens != extractMaxTokens {
		t.Fatalf("extraction budget = %d, want %d", primary.lastReq.MaxTokens, extractMaxTokens)
	}
	if primary.lastReq.SystemPrompt == "" {
		t.Fatal("extraction must carry a system prompt")
	}
}
