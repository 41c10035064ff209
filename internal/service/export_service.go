package service

import (
	"bytes"
	"context"
	"fmt"

	"poflow/internal/domain"
	"poflow/internal/export"
	"poflow/internal/port"
)

// exportPageSize is the page size used when walking full extraction history.
const exportPageSize = 1000

// ExportService produces CSV and XLSX downloads of extraction history.
type ExportService interface {
	ExportCSV(ctx context.Context, filter port.RecordFilter) ([]byte, error)
	ExportXLSX(ctx context.Context, filter port.RecordFilter) ([]byte, error)
}

type exportService struct {
	recordRepo port.ExtractionRecordRepository
}

// NewExportService creates a new ExportService implementation.
func NewExportService(recordRepo port.ExtractionRecordRepository) ExportService {
	return &exportService{recordRepo: recordRepo}
}

// listAll pages through every record matching the filter so exports cover
// the full history, not just the first page.
func (s *exportService) listAll(ctx context.Context, filter port.RecordFilter) ([]domain.ExtractionRecord, error) {
	filter.Offset = 0
	filter.Limit = exportPageSize

	var all []domain.ExtractionRecord
	for {
		recs, total, err := s.recordRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("listing records for export: %w", err)
		}
		all = append(all, recs...)
		if len(recs) < exportPageSize || len(all) >= total {
			return all, nil
		}
		filter.Offset += exportPageSize
	}
}

func (s *exportService) ExportCSV(ctx context.Context, filter port.RecordFilter) ([]byte, error) {
	recs, err := s.listAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(export.BOM)

	w := export.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteRecords(recs); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportXLSX(ctx context.Context, filter port.RecordFilter) ([]byte, error) {
	recs, err := s.listAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return export.BuildWorkbook(recs)
}
