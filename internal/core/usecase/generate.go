package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/enrich"
	"github.com/missiontoscale/quotla-api/internal/core/format"
	"github.com/missiontoscale/quotla-api/internal/core/ports"
)

const currencyPrompt = "Please specify the currency for this document (e.g., NGN, USD, EUR, GBP)"

var (
	imageExtensions    = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true, "webp": true}
	documentExtensions = map[string]bool{"pdf": true, "docx": true, "doc": true, "txt": true}
)

// Generator runs the full pipeline: resolve the document type, extract raw
// fields from whichever input kind arrived, gate on currency, then enrich and
// format. Expected endings (conversation, missing currency) come back as
// tagged outcomes rather than errors.
type Generator struct {
	extractor ports.DataExtractor
	resolver  ports.TypeResolver
	files     ports.FileTextExtractor
	enricher  *enrich.Engine
	log       *slog.Logger
}

func NewGenerator(
	extractor ports.DataExtractor,
	resolver ports.TypeResolver,
	files ports.FileTextExtractor,
	enricher *enrich.Engine,
	log *slog.Logger,
) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		extractor: extractor,
		resolver:  resolver,
		files:     files,
		enricher:  enricher,
		log:       log,
	}
}

func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error) {
	start := time.Now()

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" && req.File == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "generate",
			fmt.Errorf("request carries neither a prompt nor a file"))
	}

	docType, conversation := g.resolveType(ctx, prompt, req.DocumentType)
	if conversation != nil {
		return conversation, nil
	}

	raw, err := g.extract(ctx, prompt, req, docType)
	if err != nil {
		return nil, err
	}

	if _, ok := raw.Currency(); !ok {
		g.log.Info("generate_needs_currency", "document_type", string(docType))
		return &domain.GenerateResult{
			Outcome:      domain.OutcomeNeedsCurrency,
			DocumentType: docType,
			Message:      currencyPrompt,
			PartialData:  raw,
		}, nil
	}

	rec := g.enricher.Enrich(raw, docType)
	g.log.Info("document_generated",
		"document_type", string(docType),
		"number", rec.Number(),
		"items", len(rec.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &domain.GenerateResult{
		Outcome:      domain.OutcomeDocument,
		DocumentType: docType,
		Record:       rec,
		TextOutput:   format.Text(rec),
	}, nil
}

// resolveType honors a caller-forced type before consulting the resolver. The
// second return value is non-nil when the prompt turned out to be chit-chat.
func (g *Generator) resolveType(ctx context.Context, prompt, forced string) (domain.DocumentType, *domain.GenerateResult) {
	if docType, ok := domain.ParseDocumentType(forced); ok {
		return docType, nil
	}

	resolution := g.resolver.Resolve(ctx, prompt)
	if resolution.Conversation {
		return "", &domain.GenerateResult{
			Outcome: domain.OutcomeConversation,
			Message: resolution.Message,
		}
	}
	return resolution.Type, nil
}

func (g *Generator) extract(
	ctx context.Context,
	prompt string,
	req domain.GenerateRequest,
	docType domain.DocumentType,
) (domain.RawExtraction, error) {
	if req.File == nil {
		return g.extractor.ExtractFromText(ctx, prompt, req.History, docType)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.File.Name), "."))
	switch {
	case imageExtensions[ext]:
		return g.extractor.ExtractFromImage(ctx, prompt, req.File.Data, docType)
	case documentExtensions[ext]:
		text, err := g.files.Extract(ctx, req.File.Data, req.File.Name)
		if err != nil {
			return nil, err
		}
		return g.extractor.ExtractFromDocument(ctx, prompt, text, docType)
	default:
		return nil, domain.WrapError(domain.ErrUnsupportedFileType, "generate",
			fmt.Errorf("extension %q of %q", ext, req.File.Name))
	}
}
