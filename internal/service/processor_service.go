package service

import (
	"context"
	"log"

	"poflow/internal/domain"
	"poflow/internal/port"
)

// CreateProcessorInput is the DTO for creating an extraction processor.
type CreateProcessorInput struct {
	DisplayName string               `json:"display_name" binding:"required"`
	Description string               `json:"description"`
	Fields      []domain.SchemaField `json:"fields"`
}

// ProcessorService manages extraction processors for the admin surface.
type ProcessorService interface {
	List(ctx context.Context) ([]domain.Processor, error)
	GetSchema(ctx context.Context, name string) (*domain.ProcessorDetail, error)
	Create(ctx context.Context, input CreateProcessorInput) (*domain.Processor, error)
	Delete(ctx context.Context, name string) error
}

type processorService struct {
	admin port.ProcessorAdmin
}

// NewProcessorService creates a new ProcessorService implementation.
func NewProcessorService(admin port.ProcessorAdmin) ProcessorService {
	return &processorService{admin: admin}
}

func (s *processorService) List(ctx context.Context) ([]domain.Processor, error) {
	return s.admin.ListProcessors(ctx)
}

func (s *processorService) GetSchema(ctx context.Context, name string) (*domain.ProcessorDetail, error) {
	if name == "" {
		return nil, domain.ErrValidation
	}
	return s.admin.GetProcessorSchema(ctx, name)
}

// Create validates the processor definition: a display name and at least
// one named field are required. Unnamed fields are dropped, matching the
// admin form behavior.
func (s *processorService) Create(ctx context.Context, input CreateProcessorInput) (*domain.Processor, error) {
	if input.DisplayName == "" {
		return nil, domain.ErrValidation
	}

	var fields []domain.SchemaField
	for _, f := range input.Fields {
		if f.Name == "" {
			continue
		}
		if f.DisplayName == "" {
			f.DisplayName = f.Name
		}
		if f.Kind == "" {
			f.Kind = domain.FieldKindExtract
		}
		if f.ValueType == "" {
			f.ValueType = "string"
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, domain.ErrValidation
	}

	log.Printf("processorService.Create: creating processor %q with %d fields", input.DisplayName, len(fields))

	return s.admin.CreateProcessor(ctx, port.CreateProcessorInput{
		DisplayName: input.DisplayName,
		Description: input.Description,
		Fields:      fields,
	})
}

func (s *processorService) Delete(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrValidation
	}
	log.Printf("processorService.Delete: deleting processor %s", name)
	return s.admin.DeleteProcessor(ctx, name)
}
