package domain

import "errors"

var (
	ErrNotFound            = errors.New("extraction record not found")
	ErrValidation          = errors.New("missing required field")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrUpstream            = errors.New("upstream service error")
	ErrProcessorNotFound   = errors.New("processor not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrDeliveryFailed      = errors.New("purchase order delivery failed")
)
