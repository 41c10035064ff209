package port

import (
	"context"

	"poflow/internal/domain"
)

// Deliverer sends a reviewed purchase order downstream and returns an
// acknowledgement. Implementations decide whether delivery is real or
// simulated; the lifecycle core never does.
type Deliverer interface {
	Deliver(ctx context.Context, rec *domain.ExtractionRecord) (*domain.DeliveryReceipt, error)
}
