package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeTIFF FileType = "tiff"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeTIFF: "image/tiff",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/tiff":      FileTypeTIFF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"tiff": FileTypeTIFF,
	"tif":  FileTypeTIFF,
}

// ExtractionStatus represents the lifecycle of an extraction record.
// Records advance UPLOADED -> EXTRACTED -> REVIEWED -> SENT and never
// skip EXTRACTED or move backwards.
type ExtractionStatus string

const (
	StatusUploaded  ExtractionStatus = "UPLOADED"
	StatusExtracted ExtractionStatus = "EXTRACTED"
	StatusReviewed  ExtractionStatus = "REVIEWED"
	StatusSent      ExtractionStatus = "SENT"
)

// IsValid reports whether s is a known extraction status.
func (s ExtractionStatus) IsValid() bool {
	switch s {
	case StatusUploaded, StatusExtracted, StatusReviewed, StatusSent:
		return true
	}
	return false
}

// FieldKind distinguishes how a processor schema field is produced:
// extracted from the document text or derived by the model.
type FieldKind string

const (
	FieldKindExtract FieldKind = "Extract"
	FieldKindDerive  FieldKind = "Derive"
)
