package ports

import (
	"context"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// DocumentGenerator is the inbound contract for the generate pipeline.
type DocumentGenerator interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error)
}

// DocumentExporter is the inbound contract for rendered downloads.
type DocumentExporter interface {
	Export(ctx context.Context, req domain.GenerateRequest, format domain.ExportFormat) (*domain.ExportFile, error)
}
