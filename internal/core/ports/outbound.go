package ports

import (
	"context"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// CompletionRequest carries one provider call: a system prompt, ordered prior
// turns, and the new user message. MaxTokens bounds the completion budget.
type CompletionRequest struct {
	SystemPrompt string
	History      []domain.ConversationTurn
	UserMessage  string
	MaxTokens    int
}

// CompletionProvider is the single capability all AI backends expose: free-text
// completion, optionally with an attached image. Providers are stateless; each
// call is fully described by its arguments.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	CompleteWithImage(ctx context.Context, systemPrompt, userMessage string, image []byte) (string, error)
}

// PromptStore loads prompt templates by name. A missing template is not an
// error at this level; callers decide whether to synthesize a default.
type PromptStore interface {
	Load(name string) (string, bool)
}

// FileTextExtractor turns uploaded document bytes into plain text.
type FileTextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// DocumentRenderer renders an enriched record into downloadable bytes. The
// record is already numerically correct; renderers never recompute.
type DocumentRenderer interface {
	Render(ctx context.Context, record *domain.DocumentRecord, format domain.ExportFormat) ([]byte, error)
}
