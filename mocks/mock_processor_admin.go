package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"poflow/internal/domain"
	"poflow/internal/port"
)

// MockProcessorAdmin is a mock implementation of port.ProcessorAdmin.
type MockProcessorAdmin struct {
	mock.Mock
}

func (m *MockProcessorAdmin) ListProcessors(ctx context.Context) ([]domain.Processor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Processor), args.Error(1)
}

func (m *MockProcessorAdmin) GetProcessorSchema(ctx context.Context, name string) (*domain.ProcessorDetail, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessorDetail), args.Error(1)
}

func (m *MockProcessorAdmin) CreateProcessor(ctx context.Context, input port.CreateProcessorInput) (*domain.Processor, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Processor), args.Error(1)
}

func (m *MockProcessorAdmin) DeleteProcessor(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
