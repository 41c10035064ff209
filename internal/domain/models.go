package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FieldValue is a single machine-extracted field: the text the model read
// and how confident it was.
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ExtractedFields maps field name to the machine-produced value. It is
// written once when extraction results are attached and never mutated
// afterwards; stored as a JSONB column.
type ExtractedFields map[string]FieldValue

// Value implements driver.Valuer for JSONB persistence.
func (f ExtractedFields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB persistence.
func (f *ExtractedFields) Scan(src interface{}) error {
	return scanJSON(src, f)
}

// ReviewedFields maps field name to a human-corrected value. A blank value
// is a deliberate correction, not a fallback to the extracted value.
type ReviewedFields map[string]string

// Value implements driver.Valuer for JSONB persistence.
func (f ReviewedFields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB persistence.
func (f *ReviewedFields) Scan(src interface{}) error {
	return scanJSON(src, f)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported scan type %T for JSON column", src)
	}
}

// ExtractionRecord tracks one uploaded purchase-order document from upload
// through extraction, human review, and delivery.
type ExtractionRecord struct {
	ID                   uuid.UUID        `db:"id" json:"id"`
	Filename             string           `db:"filename" json:"filename"`
	StorageURI           string           `db:"storage_uri" json:"storage_uri"`
	ProcessorName        string           `db:"processor_name" json:"processor_name"`
	ProcessorDisplayName string           `db:"processor_display_name" json:"processor_display_name"`
	Status               ExtractionStatus `db:"status" json:"status"`
	ExtractedData        ExtractedFields  `db:"extracted_data" json:"extracted_data"`
	ReviewedData         ReviewedFields   `db:"reviewed_data" json:"reviewed_data"`
	Confidence           float64          `db:"confidence" json:"confidence"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	ReviewedAt           *time.Time       `db:"reviewed_at" json:"reviewed_at"`
	SentAt               *time.Time       `db:"sent_at" json:"sent_at"`
}

// Processor is an extraction configuration registered with the document AI
// service.
type Processor struct {
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	State          string    `json:"state"`
	Type           string    `json:"type"`
	CreateTime     time.Time `json:"create_time"`
	DefaultVersion string    `json:"default_version"`
}

// SchemaField is one field definition in a processor's extraction schema.
type SchemaField struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required"`
	ValueType   string    `json:"value_type"`
}

// ProcessorDetail is a processor together with its schema fields.
type ProcessorDetail struct {
	Processor
	Fields []SchemaField `json:"fields"`
}

// DeliveryReceipt is the acknowledgement returned by a Deliverer.
type DeliveryReceipt struct {
	DocumentNumber string `json:"document_number"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// Stats holds the dashboard counters.
type Stats struct {
	Total         int `db:"total" json:"total"`
	Uploaded      int `db:"uploaded" json:"uploaded"`
	PendingReview int `db:"pending_review" json:"pending_review"`
	Sent          int `db:"sent" json:"sent"`
}
