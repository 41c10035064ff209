package port

import (
	"context"

	"poflow/internal/domain"
)

// CreateProcessorInput holds the definition of a new extraction processor.
type CreateProcessorInput struct {
	DisplayName string
	Description string
	Fields      []domain.SchemaField
}

// ProcessorAdmin abstracts the processor-management API of the extraction
// service, consumed only by the admin surface.
type ProcessorAdmin interface {
	ListProcessors(ctx context.Context) ([]domain.Processor, error)
	GetProcessorSchema(ctx context.Context, name string) (*domain.ProcessorDetail, error)
	CreateProcessor(ctx context.Context, input CreateProcessorInput) (*domain.Processor, error)
	DeleteProcessor(ctx context.Context, name string) error
}
