package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/ports"
)

// TypeResolver asks the model to classify the prompt and falls back to a
// keyword heuristic when classification fails for any reason. Resolution
// itself never errors; a best guess beats a refused request.
type TypeResolver struct {
	extractor ports.DataExtractor
	log       *slog.Logger
}

func NewTypeResolver(extractor ports.DataExtractor, log *slog.Logger) *TypeResolver {
	if log == nil {
		log = slog.Default()
	}
	return &TypeResolver{extractor: extractor, log: log}
}

func (r *TypeResolver) Resolve(ctx context.Context, prompt string) domain.TypeResolution {
	detection, err := r.extractor.DetectType(ctx, prompt)
	if err != nil {
		r.log.Warn("type_detection_failed", "error", err)
		return domain.TypeResolution{Type: keywordGuess(prompt)}
	}

	if detection.DocumentType == "conversation" {
		message := detection.Message
		if message == "" {
			message = "Hi! Tell me about the invoice or quote you need and I'll prepare it."
		}
		return domain.TypeResolution{Conversation: true, Message: message}
	}

	if docType, ok := domain.ParseDocumentType(detection.DocumentType); ok {
		return domain.TypeResolution{Type: docType}
	}

	r.log.Warn("type_detection_unrecognized", "document_type", detection.DocumentType)
	return domain.TypeResolution{Type: keywordGuess(prompt)}
}

// keywordGuess mirrors what the classifier would usually decide: billing
// language means invoice, everything else is a quote.
func keywordGuess(prompt string) domain.DocumentType {
	lower := strings.ToLower(prompt)
	if strings.Contains(lower, "invoice") || strings.Contains(lower, "bill") {
		return domain.TypeInvoice
	}
	return domain.TypeQuote
}
