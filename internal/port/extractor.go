package port

import (
	"context"

	"poflow/internal/domain"
)

// ExtractInput carries the data needed for a document extraction call.
type ExtractInput struct {
	ProcessorName string
	FileBytes     []byte
	ContentType   string
}

// ExtractOutput contains the structured result from the extraction engine.
type ExtractOutput struct {
	Fields     domain.ExtractedFields
	Confidence float64
	RawText    string
}

// DocumentExtractor abstracts the managed document extraction engine.
// Calls are blocking with no internal retry; failures surface unmodified.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
