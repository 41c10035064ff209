package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poflow/internal/domain"
	"poflow/internal/port"
)

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed ExtractionRecordRepository.
func NewRecordRepo(db *sqlx.DB) port.ExtractionRecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, rec *domain.ExtractionRecord) error {
	rec.CreatedAt = time.Now().UTC()

	query := `INSERT INTO extraction_records (
		id, filename, storage_uri, processor_name, processor_display_name,
		status, extracted_data, reviewed_data, confidence,
		created_at, reviewed_at, sent_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Filename, rec.StorageURI, rec.ProcessorName, rec.ProcessorDisplayName,
		rec.Status, rec.ExtractedData, rec.ReviewedData, rec.Confidence,
		rec.CreatedAt, rec.ReviewedAt, rec.SentAt)
	if err != nil {
		return fmt.Errorf("recordRepo.Create: %w", err)
	}
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM extraction_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("recordRepo.GetByID: %w", err)
	}
	return &rec, nil
}

// filterClause builds the WHERE clause and args shared by List's count and
// page queries.
func filterClause(filter port.RecordFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Days > 0 {
		args = append(args, filter.Days)
		conditions = append(conditions, fmt.Sprintf("created_at >= NOW() - ($%d || ' days')::interval", len(args)))
	}
	if filter.FilenameSearch != "" {
		args = append(args, "%"+filter.FilenameSearch+"%")
		conditions = append(conditions, fmt.Sprintf("filename ILIKE $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *recordRepo) List(ctx context.Context, filter port.RecordFilter) ([]domain.ExtractionRecord, int, error) {
	where, args := filterClause(filter)

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM extraction_records "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List count: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	pageArgs := append(args, limit, filter.Offset)
	query := fmt.Sprintf(
		"SELECT * FROM extraction_records %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)

	var recs []domain.ExtractionRecord
	err = r.db.SelectContext(ctx, &recs, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List: %w", err)
	}
	return recs, total, nil
}

func (r *recordRepo) Update(ctx context.Context, rec *domain.ExtractionRecord) error {
	query := `UPDATE extraction_records SET
		status = $2, extracted_data = $3, reviewed_data = $4, confidence = $5,
		reviewed_at = $6, sent_at = $7
	WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Status, rec.ExtractedData, rec.ReviewedData, rec.Confidence,
		rec.ReviewedAt, rec.SentAt)
	if err != nil {
		return fmt.Errorf("recordRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("recordRepo.Update rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *recordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM extraction_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("recordRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("recordRepo.Delete rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
