package sap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poflow/internal/config"
	"poflow/internal/delivery/sap"
	"poflow/internal/domain"
)

func reviewedRecord(t *testing.T) *domain.ExtractionRecord {
	t.Helper()
	rec, err := domain.NewExtractionRecord("po1.pdf", "s3://b/k", "proc", "Proc")
	require.NoError(t, err)
	require.NoError(t, rec.AttachExtraction(domain.ExtractedFields{
		"vendor": {Value: "Acme", Confidence: 0.9},
		"total":  {Value: "100.00", Confidence: 0.8},
	}, 0.85))
	require.NoError(t, rec.ApplyReview(map[string]string{"vendor": "Acme Corp"}))
	return rec
}

func TestSender_Deliver_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			SourceFilename string            `json:"source_filename"`
			Header         map[string]string `json:"header"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "po1.pdf", body.SourceFilename)
		// The payload carries the reviewed value, not the raw extraction.
		assert.Equal(t, "Acme Corp", body.Header["vendor"])
		assert.Equal(t, "100.00", body.Header["total"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"document_number": "4500012345"})
	}))
	defer server.Close()

	sender := sap.NewSender(&config.DeliveryConfig{
		Provider: "sap",
		APIURL:   server.URL,
		APIKey:   "test-key",
	})

	receipt, err := sender.Deliver(context.Background(), reviewedRecord(t))

	require.NoError(t, err)
	assert.Equal(t, "4500012345", receipt.DocumentNumber)
	assert.Equal(t, "CREATED", receipt.Status)
}

func TestSender_Deliver_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"missing vendor"}`))
	}))
	defer server.Close()

	sender := sap.NewSender(&config.DeliveryConfig{APIURL: server.URL, APIKey: "test-key"})

	_, err := sender.Deliver(context.Background(), reviewedRecord(t))

	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "missing vendor")
}

func TestSender_Deliver_ConnectionError(t *testing.T) {
	sender := sap.NewSender(&config.DeliveryConfig{APIURL: "http://127.0.0.1:1", APIKey: "test-key"})

	_, err := sender.Deliver(context.Background(), reviewedRecord(t))

	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}
