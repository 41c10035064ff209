package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"poflow/internal/config"
	"poflow/internal/domain"
	"poflow/internal/port"
	s3storage "poflow/internal/storage/s3"
)

// ProcessInput is the DTO for upload-and-extract requests.
type ProcessInput struct {
	File                 multipart.File
	Header               *multipart.FileHeader
	ProcessorName        string
	ProcessorDisplayName string
}

// SendResult pairs the final record with the delivery acknowledgement.
type SendResult struct {
	Record  *domain.ExtractionRecord `json:"record"`
	Receipt *domain.DeliveryReceipt  `json:"receipt"`
}

// DocumentFile is the stored source document, returned for inline viewing.
type DocumentFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExtractionService owns the extraction record lifecycle: upload and
// extract, review, send, and reads.
type ExtractionService interface {
	Process(ctx context.Context, input ProcessInput) (*domain.ExtractionRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error)
	List(ctx context.Context, filter port.RecordFilter) ([]domain.ExtractionRecord, int, error)
	Review(ctx context.Context, id uuid.UUID, fields map[string]string) (*domain.ExtractionRecord, error)
	Send(ctx context.Context, id uuid.UUID) (*SendResult, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*DocumentFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type extractionService struct {
	recordRepo port.ExtractionRecordRepository
	storage    port.ObjectStorage
	extractor  port.DocumentExtractor
	deliverer  port.Deliverer
	cfg        *config.S3Config
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	recordRepo port.ExtractionRecordRepository,
	storage port.ObjectStorage,
	extractor port.DocumentExtractor,
	deliverer port.Deliverer,
	cfg *config.S3Config,
) ExtractionService {
	return &extractionService{
		recordRepo: recordRepo,
		storage:    storage,
		extractor:  extractor,
		deliverer:  deliverer,
		cfg:        cfg,
	}
}

// Process validates and uploads the document, creates the record, runs the
// extraction engine, and attaches the result. If the engine fails, the
// record stays in UPLOADED and the upstream error surfaces unmodified.
func (s *extractionService) Process(ctx context.Context, input ProcessInput) (*domain.ExtractionRecord, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	fileBytes, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	// Magic-byte check: the declared extension must match the content.
	// TIFF is not recognized by DetectContentType, so trust the extension there.
	detectedType := http.DetectContentType(fileBytes)
	if fileType != domain.FileTypeTIFF {
		if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
			return nil, domain.ErrUnsupportedFileType
		}
	}
	contentType := domain.AllowedFileTypes[fileType]

	// Date-partitioned storage key with a short unique prefix
	key := fmt.Sprintf("uploads/%s/%s_%s",
		time.Now().UTC().Format("2006/01/02"),
		uuid.New().String()[:8],
		input.Header.Filename)

	log.Printf("extractionService.Process: uploading %s (%s, %d bytes) for processor %s",
		input.Header.Filename, contentType, input.Header.Size, input.ProcessorName)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(fileBytes),
		ContentType: contentType,
		Size:        int64(len(fileBytes)),
	})
	if err != nil {
		log.Printf("extractionService.Process: storage upload failed for %s: %v", input.Header.Filename, err)
		return nil, domain.ErrUploadFailed
	}

	rec, err := domain.NewExtractionRecord(
		input.Header.Filename,
		s3storage.BuildURI(s.cfg.Bucket, key),
		input.ProcessorName,
		input.ProcessorDisplayName,
	)
	if err != nil {
		return nil, err
	}

	if err := s.recordRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating extraction record: %w", err)
	}

	output, err := s.extractor.Extract(ctx, port.ExtractInput{
		ProcessorName: input.ProcessorName,
		FileBytes:     fileBytes,
		ContentType:   contentType,
	})
	if err != nil {
		log.Printf("extractionService.Process: extraction failed for record %s: %v", rec.ID, err)
		return nil, err
	}

	if err := rec.AttachExtraction(output.Fields, output.Confidence); err != nil {
		return nil, err
	}
	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving extraction result: %w", err)
	}

	log.Printf("extractionService.Process: record %s extracted with confidence %.2f", rec.ID, rec.Confidence)
	return rec, nil
}

func (s *extractionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	return s.recordRepo.GetByID(ctx, id)
}

func (s *extractionService) List(ctx context.Context, filter port.RecordFilter) ([]domain.ExtractionRecord, int, error) {
	return s.recordRepo.List(ctx, filter)
}

// Review merges human corrections into the record. Idempotent: re-applying
// the same patch changes nothing further.
func (s *extractionService) Review(ctx context.Context, id uuid.UUID, fields map[string]string) (*domain.ExtractionRecord, error) {
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rec.ApplyReview(fields); err != nil {
		return nil, err
	}
	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving review: %w", err)
	}
	return rec, nil
}

// Send delivers the reviewed purchase order and marks the record SENT.
// Delivery failure leaves the record in REVIEWED so the user can retry.
func (s *extractionService) Send(ctx context.Context, id uuid.UUID) (*SendResult, error) {
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusReviewed {
		return nil, domain.ErrInvalidTransition
	}

	receipt, err := s.deliverer.Deliver(ctx, rec)
	if err != nil {
		log.Printf("extractionService.Send: delivery failed for record %s: %v", rec.ID, err)
		return nil, err
	}

	if err := rec.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving sent status: %w", err)
	}

	log.Printf("extractionService.Send: record %s sent, document %s", rec.ID, receipt.DocumentNumber)
	return &SendResult{Record: rec, Receipt: receipt}, nil
}

func (s *extractionService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	bucket, key, err := s3storage.ParseURI(rec.StorageURI)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, bucket, key, s.cfg.PresignExpiry)
}

// GetDocument fetches the stored source document so it can be rendered next
// to the extracted fields during review.
func (s *extractionService) GetDocument(ctx context.Context, id uuid.UUID) (*DocumentFile, error) {
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bucket, key, err := s3storage.ParseURI(rec.StorageURI)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("downloading document for record %s: %w", rec.ID, err)
	}

	contentType := "application/octet-stream"
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(rec.Filename), "."))
	if fileType, ok := domain.AllowedExtensions[ext]; ok {
		contentType = domain.AllowedFileTypes[fileType]
	}

	return &DocumentFile{
		Filename:    rec.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Delete removes the stored document and then the record itself.
func (s *extractionService) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	bucket, key, err := s3storage.ParseURI(rec.StorageURI)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, bucket, key); err != nil {
		log.Printf("extractionService.Delete: failed to delete object for record %s: %v", rec.ID, err)
		return fmt.Errorf("deleting from storage: %w", err)
	}

	log.Printf("extractionService.Delete: deleting record %s (%s)", rec.ID, rec.Filename)
	return s.recordRepo.Delete(ctx, id)
}
