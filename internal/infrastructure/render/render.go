// Package render turns an enriched document record into downloadable bytes in
// the supported export formats.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

type Service struct {
	log *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{log: log}
}

func (s *Service) Render(ctx context.Context, rec *domain.DocumentRecord, format domain.ExportFormat) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch format {
	case domain.FormatPDF:
		data, err = renderPDF(rec)
	case domain.FormatDOCX:
		data, err = renderDOCX(rec)
	case domain.FormatPNG:
		data, err = renderPNG(rec)
	case domain.FormatXLSX:
		data, err = renderXLSX(rec)
	default:
		return nil, fmt.Errorf("render: unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	s.log.Info("document_rendered",
		"format", string(format),
		"document_type", string(rec.DocumentType),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}
