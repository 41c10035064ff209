package noop_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poflow/internal/delivery/noop"
	"poflow/internal/domain"
)

func TestNoopSender_Deliver(t *testing.T) {
	rec, err := domain.NewExtractionRecord("po1.pdf", "s3://b/k", "proc", "Proc")
	require.NoError(t, err)
	require.NoError(t, rec.AttachExtraction(domain.ExtractedFields{
		"vendor": {Value: "Acme", Confidence: 0.9},
	}, 0.9))
	require.NoError(t, rec.ApplyReview(nil))

	sender := noop.NewNoopSender()
	receipt, err := sender.Deliver(context.Background(), rec)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.DocumentNumber, "SAP-"))
	assert.Len(t, receipt.DocumentNumber, 12)
	assert.Equal(t, "CREATED", receipt.Status)
	assert.Contains(t, receipt.Message, "po1.pdf")
}

func TestNoopSender_Deliver_UniqueDocumentNumbers(t *testing.T) {
	rec, err := domain.NewExtractionRecord("po1.pdf", "s3://b/k", "proc", "Proc")
	require.NoError(t, err)

	sender := noop.NewNoopSender()
	first, err := sender.Deliver(context.Background(), rec)
	require.NoError(t, err)
	second, err := sender.Deliver(context.Background(), rec)
	require.NoError(t, err)

	assert.NotEqual(t, first.DocumentNumber, second.DocumentNumber)
}
