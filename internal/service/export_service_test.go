package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poflow/internal/domain"
	"poflow/internal/port"
	"poflow/internal/service"
	"poflow/mocks"
)

func makeRecords(t *testing.T, n int) []domain.ExtractionRecord {
	t.Helper()
	recs := make([]domain.ExtractionRecord, 0, n)
	for i := 0; i < n; i++ {
		rec, err := domain.NewExtractionRecord(
			fmt.Sprintf("po%d.pdf", i), "s3://b/k", "proc", "PO Extractor")
		require.NoError(t, err)
		recs = append(recs, *rec)
	}
	return recs
}

func TestExportService_ExportCSV_SinglePage(t *testing.T) {
	recordRepo := new(mocks.MockRecordRepo)
	svc := service.NewExportService(recordRepo)

	recordRepo.On("List", mock.Anything, port.RecordFilter{Offset: 0, Limit: 1000}).
		Return(makeRecords(t, 3), 3, nil)

	data, err := svc.ExportCSV(context.Background(), port.RecordFilter{})

	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + 3 records
	recordRepo.AssertNumberOfCalls(t, "List", 1)
}

// Histories larger than one page must be walked in full, not truncated.
func TestExportService_ExportCSV_PagesThroughFullHistory(t *testing.T) {
	recordRepo := new(mocks.MockRecordRepo)
	svc := service.NewExportService(recordRepo)

	total := 1500
	recordRepo.On("List", mock.Anything, port.RecordFilter{Offset: 0, Limit: 1000}).
		Return(makeRecords(t, 1000), total, nil)
	recordRepo.On("List", mock.Anything, port.RecordFilter{Offset: 1000, Limit: 1000}).
		Return(makeRecords(t, 500), total, nil)

	data, err := svc.ExportCSV(context.Background(), port.RecordFilter{})

	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, total+1)
	recordRepo.AssertExpectations(t)
}

func TestExportService_ExportCSV_CallerPaginationIgnored(t *testing.T) {
	recordRepo := new(mocks.MockRecordRepo)
	svc := service.NewExportService(recordRepo)

	recordRepo.On("List", mock.Anything, port.RecordFilter{Status: domain.StatusSent, Offset: 0, Limit: 1000}).
		Return(makeRecords(t, 1), 1, nil)

	_, err := svc.ExportCSV(context.Background(), port.RecordFilter{
		Status: domain.StatusSent,
		Offset: 40,
		Limit:  10,
	})

	require.NoError(t, err)
	recordRepo.AssertExpectations(t)
}

func TestExportService_ExportXLSX_PagesThroughFullHistory(t *testing.T) {
	recordRepo := new(mocks.MockRecordRepo)
	svc := service.NewExportService(recordRepo)

	total := 1200
	recordRepo.On("List", mock.Anything, port.RecordFilter{Offset: 0, Limit: 1000}).
		Return(makeRecords(t, 1000), total, nil)
	recordRepo.On("List", mock.Anything, port.RecordFilter{Offset: 1000, Limit: 1000}).
		Return(makeRecords(t, 200), total, nil)

	data, err := svc.ExportXLSX(context.Background(), port.RecordFilter{})

	require.NoError(t, err)
	assert.NotEmpty(t, data)
	recordRepo.AssertExpectations(t)
}
