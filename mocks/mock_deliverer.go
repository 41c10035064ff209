package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"poflow/internal/domain"
)

// MockDeliverer is a mock implementation of port.Deliverer.
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, rec *domain.ExtractionRecord) (*domain.DeliveryReceipt, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryReceipt), args.Error(1)
}
