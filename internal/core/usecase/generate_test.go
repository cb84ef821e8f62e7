package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/enrich"
)

func newGenerator(ex *extractorFake, res *resolverFake, files *fileExtractorFake) *Generator {
	if files == nil {
		files = &fileExtractorFake{}
	}
	return NewGenerator(ex, res, files, enrich.NewEngine(7.5, 3.0), nil)
}

func TestGenerateDocumentFromText(t *testing.T) {
	ex := &extractorFake{raw: extractionWithCurrency()}
	res := &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeInvoice}}
	gen := newGenerator(ex, res, nil)

	result, err := gen.Generate(context.Background(), domain.GenerateRequest{Prompt: "invoice for Acme"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Outcome != domain.OutcomeDocument {
		t.Fatalf("outcome = %q, want document", result.Outcome)
	}
	if result.DocumentType != domain.TypeInvoice {
		t.Fatalf("document type = %q", result.DocumentType)
	}
	if result.Record == nil || result.Record.Subtotal != 200 {
		t.Fatalf("record = %+v, want subtotal 200", result.Record)
	}
	if !strings.Contains(result.TextOutput, "--- INVOICE ---") {
		t.Fatalf("text output missing header: %q", result.TextOutput)
	}
	if ex.textCalls != 1 {
		t.Fatalf("text extraction calls = %d, want 1", ex.textCalls)
	}
}

func TestGenerateRejectsEmptyRequest(t *testing.T) {
	gen := newGenerator(&extractorFake{}, &resolverFake{}, nil)

	_, err := gen.Generate(context.Background(), domain.GenerateRequest{Prompt: "   "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want invalid input kind", err)
	}
}

func TestGenerateForcedTypeSkipsResolver(t *testing.T) {
	ex := &extractorFake{raw: extractionWithCurrency()}
	res := &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeInvoice}}
	gen := newGenerator(ex, res, nil)

	result, err := gen.Generate(context.Background(), domain.GenerateRequest{
		Prompt:       "something for Acme",
		DocumentType: "Quote",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.DocumentType != domain.TypeQuote {
		t.Fatalf("document type = %q, want forced quote", result.DocumentType)
	}
	if res.calls != 0 {
		t.Fatalf("resolver calls = %d, want 0 when type is forced", res.calls)
	}
}

func TestGenerateConversationShortCircuit(t *testing.T) {
	ex := &extractorFake{}
	res := &resolverFake{resolution: domain.TypeResolution{Conversation: true, Message: "Hi! What do you need?"}}
	gen := newGenerator(ex, res, nil)

	result, err := gen.Generate(context.Background(), domain.GenerateRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Outcome != domain.OutcomeConversation {
		t.Fatalf("outcome = %q, want conversation", result.Outcome)
	}
	if result.Message != "Hi! What do you need?" {
		t.Fatalf("message = %q", result.Message)
	}
	if ex.textCalls+ex.documentCalls+ex.imageCalls != 0 {
		t.Fatal("extraction must not run for conversational input")
	}
}

func TestGenerateNeedsCurrency(t *testing.T) {
	ex := &extractorFake{raw: extractionWithoutCurrency()}
	res := &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeQuote}}
	gen := newGenerator(ex, res, nil)

	result, err := gen.Generate(context.Background(), domain.GenerateRequest{Prompt: "quote for Acme"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Outcome != domain.OutcomeNeedsCurrency {
		t.Fatalf("outcome = %q, want needs_currency", result.Outcome)
	}
	if result.DocumentType != domain.TypeQuote {
		t.Fatalf("document type = %q, must survive into the reply", result.DocumentType)
	}
	if !strings.Contains(result.Message, "currency") {
		t.Fatalf("message = %q, must ask for the currency", result.Message)
	}
	if result.PartialData == nil || result.PartialData.String("customer_name") != "Acme Corp" {
		t.Fatalf("partial data = %v, must carry the extraction", result.PartialData)
	}
}

func TestGenerateImageUploadUsesVisionPath(t *testing.T) {
	ex := &extractorFake{raw: extractionWithCurrency()}
	res := &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeInvoice}}
	files := &fileExtractorFake{}
	gen := newGenerator(ex, res, files)

	_, err := gen.Generate(context.Background(), domain.GenerateRequest{
		Prompt: "extract this receipt",
		File:   &domain.FileUpload{Name: "receipt.JPG", Data: []byte{0xFF, 0xD8}},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if ex.imageCalls != 1 || ex.textCalls != 0 || ex.documentCalls != 0 {
		t.Fatalf("calls image=%d text=%d document=%d, want vision only", ex.imageCalls, ex.textCalls, ex.documentCalls)
	}
	if files.calls != 0 {
		t.Fatal("file text extraction must not run for images")
	}
}

func TestGenerateDocumentUploadExtractsTextFirst(t *testing.T) {
	ex := &extractorFake{raw: extractionWithCurrency()}
	res := &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeInvoice}}
	files := &fileExtractorFake{text: "Invoice #42 for Acme"}
	gen := newGenerator(ex, res, files)

	_, err := gen.Generate(context.Background(), domain.GenerateRequest{
		Prompt: "extract this",
		File:   &domain.FileUpload{Name: "invoice.pdf", Data: []byte("%PDF")},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if files.calls != 1 || ex.documentCalls != 1 {
		t.Fatalf("calls files=%d document=%d, want 1/1", files.calls, ex.documentCalls)
	}
	if ex.lastDocumentText != "Invoice #42 for Acme" {
		t.Fatalf("document text = %q", ex.lastDocumentText)
	}
}

func TestGenerateUnsupportedUploadExtension(t *testing.T) {
	gen := newGenerator(&extractorFake{}, &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeInvoice}}, nil)

	_, err := gen.Generate(context.Background(), domain.GenerateRequest{
		Prompt: "extract",
		File:   &domain.FileUpload{Name: "data.csv", Data: []byte("a,b")},
	})
	if !domain.IsKind(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("error = %v, want unsupported file type kind", err)
	}
}

func TestGenerateSurfacesExtractionError(t *testing.T) {
	ex := &extractorFake{err: errBackend}
	res := &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeInvoice}}
	gen := newGenerator(ex, res, nil)

	_, err := gen.Generate(context.Background(), domain.GenerateRequest{Prompt: "invoice"})
	if !errors.Is(err, errBackend) {
		t.Fatalf("error = %v, want backend cause", err)
	}
}

func TestGenerateSurfacesFileExtractionError(t *testing.T) {
	files := &fileExtractorFake{err: errBackend}
	gen := newGenerator(&extractorFake{}, &resolverFake{resolution: domain.TypeResolution{Type: domain.TypeInvoice}}, files)

	_, err := gen.Generate(context.Background(), domain.GenerateRequest{
		Prompt: "extract",
		File:   &domain.FileUpload{Name: "invoice.pdf", Data: []byte("%PDF")},
	})
	if !errors.Is(err, errBackend) {
		t.Fatalf("error = %v, want file extraction cause", err)
	}
}
