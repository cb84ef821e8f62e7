package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/ports"
)

// Exporter runs the same generation pipeline and then renders the record into
// a download. Exports have no conversational path: an input that does not
// yield a complete document is a client error here.
type Exporter struct {
	generator ports.DocumentGenerator
	renderer  ports.DocumentRenderer
	log       *slog.Logger
}

func NewExporter(generator ports.DocumentGenerator, renderer ports.DocumentRenderer, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{generator: generator, renderer: renderer, log: log}
}

func (e *Exporter) Export(ctx context.Context, req domain.GenerateRequest, format domain.ExportFormat) (*domain.ExportFile, error) {
	result, err := e.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case domain.OutcomeDocument:
	case domain.OutcomeNeedsCurrency:
		return nil, domain.WrapError(domain.ErrCurrencyMissing, "export",
			fmt.Errorf("document type %s extracted without a currency", result.DocumentType))
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "export",
			fmt.Errorf("input resolved to a conversational reply, not a document"))
	}

	data, err := e.renderer.Render(ctx, result.Record, format)
	if err != nil {
		return nil, fmt.Errorf("export render: %w", err)
	}

	filename := result.Record.Number() + "." + string(format)
	e.log.Info("document_exported",
		"format", string(format),
		"filename", filename,
		"bytes", len(data),
	)
	return &domain.ExportFile{
		Filename:    filename,
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
