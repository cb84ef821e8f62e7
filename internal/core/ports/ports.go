package ports

import (
	"context"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// DataExtractor is the gateway-facing contract for structured extraction.
// Only the text path carries provider failover; document and image intake run
// against the primary provider alone.
type DataExtractor interface {
	ExtractFromText(ctx context.Context, prompt string, history []domain.ConversationTurn, docType domain.DocumentType) (domain.RawExtraction, error)
	ExtractFromDocument(ctx context.Context, prompt, documentText string, docType domain.DocumentType) (domain.RawExtraction, error)
	ExtractFromImage(ctx context.Context, prompt string, image []byte, docType domain.DocumentType) (domain.RawExtraction, error)
	DetectType(ctx context.Context, prompt string) (domain.TypeDetection, error)
}

// TypeResolver decides invoice vs quote vs conversational short-circuit.
// It never fails: classification errors degrade to a keyword heuristic.
type TypeResolver interface {
	Resolve(ctx context.Context, prompt string) domain.TypeResolution
}
