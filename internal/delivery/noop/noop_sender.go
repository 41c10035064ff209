package noop

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"poflow/internal/domain"
	"poflow/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a Deliverer that simulates sending a purchase order
// downstream. It logs the payload and fabricates an SAP-style document
// number; no network call is made.
func NewNoopSender() port.Deliverer {
	return &noopSender{}
}

func (s *noopSender) Deliver(_ context.Context, rec *domain.ExtractionRecord) (*domain.DeliveryReceipt, error) {
	log.Printf("[MOCK SAP] sending PO for %s (%d fields)", rec.Filename, len(rec.EffectiveFields()))

	docNumber := "SAP-" + strings.ToUpper(uuid.New().String()[:8])
	log.Printf("[MOCK SAP] created document %s", docNumber)

	return &domain.DeliveryReceipt{
		DocumentNumber: docNumber,
		Status:         "CREATED",
		Message:        fmt.Sprintf("Mock SAP document %s created for %s.", docNumber, rec.Filename),
	}, nil
}
