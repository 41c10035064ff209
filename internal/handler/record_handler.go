package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poflow/internal/domain"
	"poflow/internal/port"
	"poflow/internal/service"
)

// RecordHandler handles extraction record endpoints.
type RecordHandler struct {
	extractionService service.ExtractionService
	exportService     service.ExportService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(extractionService service.ExtractionService, exportService service.ExportService) *RecordHandler {
	return &RecordHandler{extractionService: extractionService, exportService: exportService}
}

// recordDetail decorates a record with its merged field view and a
// presigned link to the source document.
type recordDetail struct {
	*domain.ExtractionRecord
	EffectiveFields map[string]string `json:"effective_fields"`
	DownloadURL     string            `json:"download_url,omitempty"`
}

// Process handles POST /api/v1/records/process
// @Summary Upload and extract a document
// @Description Upload a purchase order document, store it, and run extraction with the selected processor
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to process (pdf, png, jpg, tiff)"
// @Param processor_name formData string true "Full processor resource name"
// @Param processor_display_name formData string false "Processor display name"
// @Success 201 {object} APIResponse{data=domain.ExtractionRecord} "Record extracted"
// @Failure 400 {object} APIResponse "Invalid request or unsupported file type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 502 {object} APIResponse "Extraction service error"
// @Router /records/process [post]
func (h *RecordHandler) Process(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	defer file.Close()

	processorName := c.PostForm("processor_name")
	if processorName == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "processor_name is required")
		return
	}

	rec, err := h.extractionService.Process(c.Request.Context(), service.ProcessInput{
		File:                 file,
		Header:               header,
		ProcessorName:        processorName,
		ProcessorDisplayName: c.PostForm("processor_display_name"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// List handles GET /api/v1/records
// @Summary List extraction records
// @Description List extraction history with optional status, recency, and filename filters
// @Tags records
// @Produce json
// @Param status query string false "Filter by status (UPLOADED, EXTRACTED, REVIEWED, SENT)"
// @Param days query int false "Only records created within the last N days"
// @Param search query string false "Case-insensitive filename substring match"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(50)
// @Success 200 {object} APIResponse{data=[]domain.ExtractionRecord} "Records"
// @Failure 400 {object} APIResponse "Invalid filter"
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	filter, err := parseRecordFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	records, total, err := h.extractionService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: filter.Offset, Limit: filter.Limit})
}

// GetByID handles GET /api/v1/records/:id
// @Summary Get extraction record by ID
// @Description Get a record with its merged field view and a presigned download link
// @Tags records
// @Produce json
// @Param id path string true "Record ID (UUID)"
// @Success 200 {object} APIResponse{data=recordDetail} "Record details"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Record not found"
// @Router /records/{id} [get]
func (h *RecordHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	rec, err := h.extractionService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	// A missing download link should not fail the read.
	url, err := h.extractionService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		log.Printf("recordHandler.GetByID: presign failed for record %s: %v", id, err)
		url = ""
	}

	RespondOK(c, recordDetail{
		ExtractionRecord: rec,
		EffectiveFields:  rec.EffectiveFields(),
		DownloadURL:      url,
	})
}

// Review handles PUT /api/v1/records/:id/review
// @Summary Review an extraction record
// @Description Merge corrected field values into the record and mark it reviewed
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Record ID (UUID)"
// @Param request body ReviewRequest true "Corrected field values"
// @Success 200 {object} APIResponse{data=domain.ExtractionRecord} "Reviewed record"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 404 {object} APIResponse "Record not found"
// @Failure 409 {object} APIResponse "Record is not reviewable in its current status"
// @Router /records/{id}/review [put]
func (h *RecordHandler) Review(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "fields object is required")
		return
	}

	rec, err := h.extractionService.Review(c.Request.Context(), id, req.Fields)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Send handles POST /api/v1/records/:id/send
// @Summary Send a reviewed record downstream
// @Description Deliver the record's effective fields to the configured ERP endpoint and mark it sent
// @Tags records
// @Produce json
// @Param id path string true "Record ID (UUID)"
// @Success 200 {object} APIResponse{data=service.SendResult} "Delivery receipt"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Record not found"
// @Failure 409 {object} APIResponse "Record is not in REVIEWED status"
// @Failure 502 {object} APIResponse "Delivery failed"
// @Router /records/{id}/send [post]
func (h *RecordHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	result, err := h.extractionService.Send(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Download handles GET /api/v1/records/:id/file
// @Summary Download the source document
// @Description Stream the stored document bytes for inline viewing next to the extracted fields
// @Tags records
// @Produce application/octet-stream
// @Param id path string true "Record ID (UUID)"
// @Success 200 {file} file "Document bytes"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Record not found"
// @Router /records/{id}/file [get]
func (h *RecordHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	doc, err := h.extractionService.GetDocument(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// Delete handles DELETE /api/v1/records/:id
// @Summary Delete an extraction record
// @Description Remove the stored document and its extraction record
// @Tags records
// @Produce json
// @Param id path string true "Record ID (UUID)"
// @Success 200 {object} APIResponse "Record deleted"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Record not found"
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	if err := h.extractionService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": id})
}

// Export handles GET /api/v1/records/export
// @Summary Export extraction records
// @Description Export filtered extraction history as CSV or XLSX
// @Tags records
// @Produce application/octet-stream
// @Param format query string false "Export format: csv or xlsx" default(csv)
// @Param status query string false "Filter by status"
// @Param days query int false "Only records created within the last N days"
// @Param search query string false "Case-insensitive filename substring match"
// @Success 200 {file} file "Exported file"
// @Failure 400 {object} APIResponse "Invalid filter or format"
// @Router /records/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	filter, err := parseRecordFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	// Exports page internally; ignore caller pagination.
	filter.Offset = 0
	filter.Limit = 0

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		data, err := h.exportService.ExportCSV(c.Request.Context(), filter)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="extractions.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		data, err := h.exportService.ExportXLSX(c.Request.Context(), filter)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="extractions.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be 'csv' or 'xlsx'")
	}
}

// ReviewRequest is the payload for PUT /records/:id/review.
type ReviewRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

func parseRecordFilter(c *gin.Context) (port.RecordFilter, error) {
	var filter port.RecordFilter

	if s := c.Query("status"); s != "" {
		status := domain.ExtractionStatus(s)
		if !status.IsValid() {
			return filter, fmt.Errorf("invalid status %q", s)
		}
		filter.Status = status
	}

	if d := c.Query("days"); d != "" {
		days, err := strconv.Atoi(d)
		if err != nil || days < 0 {
			return filter, fmt.Errorf("days must be a non-negative integer")
		}
		filter.Days = days
	}

	filter.FilenameSearch = c.Query("search")

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return filter, fmt.Errorf("offset must be a non-negative integer")
	}
	filter.Offset = offset

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		return filter, fmt.Errorf("limit must be a non-negative integer")
	}
	if limit > 100 {
		limit = 100
	}
	filter.Limit = limit

	return filter, nil
}
