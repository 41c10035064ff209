package port

import (
	"context"

	"github.com/google/uuid"

	"poflow/internal/domain"
)

// RecordFilter narrows history queries. Zero values mean "no filter".
type RecordFilter struct {
	Status         domain.ExtractionStatus
	Days           int
	FilenameSearch string
	Offset         int
	Limit          int
}

// ExtractionRecordRepository defines the contract for record persistence.
// Writes are whole-row and last-write-wins; the store provides no
// cross-record transactions.
type ExtractionRecordRepository interface {
	Create(ctx context.Context, rec *domain.ExtractionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error)
	List(ctx context.Context, filter RecordFilter) ([]domain.ExtractionRecord, int, error)
	Update(ctx context.Context, rec *domain.ExtractionRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}
