package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"poflow/internal/domain"
	"poflow/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const statsQuery = `SELECT
	COUNT(*) AS total,
	COUNT(CASE WHEN status = 'UPLOADED' THEN 1 END) AS uploaded,
	COUNT(CASE WHEN status IN ('EXTRACTED', 'REVIEWED') THEN 1 END) AS pending_review,
	COUNT(CASE WHEN status = 'SENT' THEN 1 END) AS sent
FROM extraction_records`

func (r *statsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, statsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats: %w", err)
	}
	return &stats, nil
}
