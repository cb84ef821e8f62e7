package usecase

import (
	"context"
	"errors"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// extractorFake answers every extraction path with canned data and records
// which path was taken.
type extractorFake struct {
	raw       domain.RawExtraction
	err       error
	detection domain.TypeDetection
	detectErr error

	textCalls     int
	documentCalls int
	imageCalls    int
	detectCalls   int

	lastPrompt       string
	lastDocumentText string
	lastDocType      domain.DocumentType
}

func (f *extractorFake) ExtractFromText(_ context.Context, prompt string, _ []domain.ConversationTurn, docType domain.DocumentType) (domain.RawExtraction, error) {
	f.textCalls++
	f.lastPrompt = prompt
	f.lastDocType = docType
	return f.raw, f.err
}

func (f *extractorFake) ExtractFromDocument(_ context.Context, prompt, documentText string, docType domain.DocumentType) (domain.RawExtraction, error) {
	f.documentCalls++
	f.lastPrompt = prompt
	f.lastDocumentText = documentText
	f.lastDocType = docType
	return f.raw, f.err
}

func (f *extractorFake) ExtractFromImage(_ context.Context, prompt string, _ []byte, docType domain.DocumentType) (domain.RawExtraction, error) {
	f.imageCalls++
	f.lastPrompt = prompt
	f.lastDocType = docType
	return f.raw, f.err
}

func (f *extractorFake) DetectType(context.Context, string) (domain.TypeDetection, error) {
	f.detectCalls++
	return f.detection, f.detectErr
}

type resolverFake struct {
	resolution domain.TypeResolution
	calls      int
}

func (f *resolverFake) Resolve(context.Context, string) domain.TypeResolution {
	f.calls++
	return f.resolution
}

type fileExtractorFake struct {
	text  string
	err   error
	calls int
}

func (f *fileExtractorFake) Extract(context.Context, []byte, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type rendererFake struct {
	data       []byte
	err        error
	lastFormat domain.ExportFormat
}

func (f *rendererFake) Render(_ context.Context, _ *domain.DocumentRecord, format domain.ExportFormat) ([]byte, error) {
	f.lastFormat = format
	return f.data, f.err
}

type generatorFake struct {
	result *domain.GenerateResult
	err    error
}

func (f *generatorFake) Generate(context.Context, domain.GenerateRequest) (*domain.GenerateResult, error) {
	return f.result, f.err
}

var errBackend = errors.New("backend unavailable")

func extractionWithCurrency() domain.RawExtraction {
	return domain.RawExtraction{
		"customer_name": "Acme Corp",
		"currency":      "NGN",
		"items": []any{
			map[string]any{"description": "Consulting", "quantity": float64(2), "unit_price": float64(100)},
		},
	}
}

func extractionWithoutCurrency() domain.RawExtraction {
	return domain.RawExtraction{
		"customer_name": "Acme Corp",
		"items": []any{
			map[string]any{"description": "Consulting", "quantity": float64(2), "unit_price": float64(100)},
		},
	}
}
