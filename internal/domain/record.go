package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewExtractionRecord creates a record for a freshly uploaded document.
// All four identity fields are required. The record starts in UPLOADED with
// no extraction data and no review timestamps.
func NewExtractionRecord(filename, storageURI, processorName, processorDisplayName string) (*ExtractionRecord, error) {
	if filename == "" || storageURI == "" || processorName == "" || processorDisplayName == "" {
		return nil, ErrValidation
	}
	return &ExtractionRecord{
		ID:                   uuid.New(),
		Filename:             filename,
		StorageURI:           storageURI,
		ProcessorName:        processorName,
		ProcessorDisplayName: processorDisplayName,
		Status:               StatusUploaded,
		ExtractedData:        ExtractedFields{},
		ReviewedData:         ReviewedFields{},
	}, nil
}

// AttachExtraction records the machine output and advances the record to
// EXTRACTED. It is only legal from UPLOADED: the extraction snapshot is
// immutable, so re-extracting an already-extracted record is rejected.
// The record is untouched on failure.
func (r *ExtractionRecord) AttachExtraction(fields ExtractedFields, confidence float64) error {
	if r.Status != StatusUploaded {
		return ErrInvalidTransition
	}
	if fields == nil {
		fields = ExtractedFields{}
	}
	r.ExtractedData = fields
	r.Confidence = confidence
	r.Status = StatusExtracted
	return nil
}

// ApplyReview merges human corrections into the record and advances it to
// REVIEWED. Legal from EXTRACTED (first review) or REVIEWED (re-review).
// The patch is merged per field: fields missing from the patch keep their
// prior corrected value, or fall back to the extracted value at read time.
// A blank patch value is kept as an explicit override. ReviewedAt is set
// only on the first transition into REVIEWED.
func (r *ExtractionRecord) ApplyReview(patch map[string]string) error {
	if r.Status != StatusExtracted && r.Status != StatusReviewed {
		return ErrInvalidTransition
	}
	if r.ReviewedData == nil {
		r.ReviewedData = ReviewedFields{}
	}
	for name, value := range patch {
		r.ReviewedData[name] = value
	}
	if r.Status == StatusExtracted {
		now := time.Now().UTC()
		r.ReviewedAt = &now
	}
	r.Status = StatusReviewed
	return nil
}

// MarkSent advances the record to SENT and stamps SentAt. Legal only from
// REVIEWED; SENT is terminal.
func (r *ExtractionRecord) MarkSent() error {
	if r.Status != StatusReviewed {
		return ErrInvalidTransition
	}
	now := time.Now().UTC()
	r.SentAt = &now
	r.Status = StatusSent
	return nil
}

// EffectiveFields reconciles machine output with human corrections: for
// every field present in either map, the reviewed value wins when present
// (even when blank), otherwise the extracted value is used. Every consumer
// of record data reads through this method so the merge rule has exactly
// one implementation.
func (r *ExtractionRecord) EffectiveFields() map[string]string {
	out := make(map[string]string, len(r.ExtractedData)+len(r.ReviewedData))
	for name, fv := range r.ExtractedData {
		out[name] = fv.Value
	}
	for name, value := range r.ReviewedData {
		out[name] = value
	}
	return out
}
