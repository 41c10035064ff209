package sap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"poflow/internal/config"
	"poflow/internal/domain"
)

// Sender delivers reviewed purchase orders to an SAP endpoint over HTTP.
type Sender struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewSender creates an SAP-backed Deliverer from config.
func NewSender(cfg *config.DeliveryConfig) *Sender {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Sender{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// payload mirrors the SAP PO creation request: a header section built from
// the record's effective fields, keyed by the extraction field names.
type payload struct {
	SourceFilename string            `json:"source_filename"`
	Header         map[string]string `json:"header"`
}

type sapResponse struct {
	DocumentNumber string `json:"document_number"`
}

func (s *Sender) Deliver(ctx context.Context, rec *domain.ExtractionRecord) (*domain.DeliveryReceipt, error) {
	body, err := json.Marshal(payload{
		SourceFilename: rec.Filename,
		Header:         rec.EffectiveFields(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling sap: %v", domain.ErrDeliveryFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: sap API error (status %d): %s",
			domain.ErrDeliveryFailed, resp.StatusCode, string(respBody))
	}

	var result sapResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &domain.DeliveryReceipt{
		DocumentNumber: result.DocumentNumber,
		Status:         "CREATED",
		Message:        fmt.Sprintf("SAP document %s created.", result.DocumentNumber),
	}, nil
}
