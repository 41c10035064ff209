package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"poflow/internal/service"
)

// ProcessorHandler handles processor administration endpoints.
type ProcessorHandler struct {
	processorService service.ProcessorService
}

// NewProcessorHandler creates a new ProcessorHandler.
func NewProcessorHandler(processorService service.ProcessorService) *ProcessorHandler {
	return &ProcessorHandler{processorService: processorService}
}

// List handles GET /api/v1/processors
// @Summary List extraction processors
// @Description List the custom extraction processors available in the project
// @Tags processors
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.Processor} "Processors"
// @Failure 502 {object} APIResponse "Upstream service error"
// @Router /processors [get]
func (h *ProcessorHandler) List(c *gin.Context) {
	processors, err := h.processorService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, processors)
}

// GetSchema handles GET /api/v1/processors/:name/schema
// @Summary Get processor schema
// @Description Get a processor's field schema; processor resource names must be URL-encoded
// @Tags processors
// @Produce json
// @Param name path string true "URL-encoded processor resource name"
// @Success 200 {object} APIResponse{data=domain.ProcessorDetail} "Processor with schema fields"
// @Failure 400 {object} APIResponse "Invalid name"
// @Failure 404 {object} APIResponse "Processor not found"
// @Router /processors/{name}/schema [get]
func (h *ProcessorHandler) GetSchema(c *gin.Context) {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil || name == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid processor name")
		return
	}

	detail, err := h.processorService.GetSchema(c.Request.Context(), name)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, detail)
}

// Create handles POST /api/v1/processors
// @Summary Create an extraction processor
// @Description Create a custom extraction processor and apply its field schema
// @Tags processors
// @Accept json
// @Produce json
// @Param request body service.CreateProcessorInput true "Processor definition"
// @Success 201 {object} APIResponse{data=domain.Processor} "Processor created"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 502 {object} APIResponse "Upstream service error"
// @Router /processors [post]
func (h *ProcessorHandler) Create(c *gin.Context) {
	var req service.CreateProcessorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "display_name and fields are required")
		return
	}

	processor, err := h.processorService.Create(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, processor)
}

// Delete handles DELETE /api/v1/processors/:name
// @Summary Delete an extraction processor
// @Description Delete a processor by its URL-encoded resource name
// @Tags processors
// @Produce json
// @Param name path string true "URL-encoded processor resource name"
// @Success 200 {object} APIResponse "Processor deleted"
// @Failure 400 {object} APIResponse "Invalid name"
// @Failure 404 {object} APIResponse "Processor not found"
// @Router /processors/{name} [delete]
func (h *ProcessorHandler) Delete(c *gin.Context) {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil || name == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid processor name")
		return
	}

	if err := h.processorService.Delete(c.Request.Context(), name); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": name})
}
