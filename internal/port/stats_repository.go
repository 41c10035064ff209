package port

import (
	"context"

	"poflow/internal/domain"
)

// StatsRepository provides aggregate statistics queries.
type StatsRepository interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
}
