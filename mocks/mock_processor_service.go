package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"poflow/internal/domain"
	"poflow/internal/service"
)

// MockProcessorService is a mock implementation of service.ProcessorService.
type MockProcessorService struct {
	mock.Mock
}

func (m *MockProcessorService) List(ctx context.Context) ([]domain.Processor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Processor), args.Error(1)
}

func (m *MockProcessorService) GetSchema(ctx context.Context, name string) (*domain.ProcessorDetail, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessorDetail), args.Error(1)
}

func (m *MockProcessorService) Create(ctx context.Context, input service.CreateProcessorInput) (*domain.Processor, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Processor), args.Error(1)
}

func (m *MockProcessorService) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
