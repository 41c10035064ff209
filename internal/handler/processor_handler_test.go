package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poflow/internal/domain"
	"poflow/internal/handler"
	"poflow/mocks"
)

func newProcessorHandler() (*handler.ProcessorHandler, *mocks.MockProcessorService) {
	processorSvc := new(mocks.MockProcessorService)
	h := handler.NewProcessorHandler(processorSvc)
	return h, processorSvc
}

func TestProcessorHandler_List_Success(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	processorSvc.On("List", mock.Anything).Return([]domain.Processor{
		{Name: "projects/p/locations/us/processors/1", DisplayName: "PO Extractor"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/processors", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestProcessorHandler_List_UpstreamError(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	processorSvc.On("List", mock.Anything).Return(nil, domain.ErrUpstream)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/processors", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UPSTREAM_SERVICE_ERROR", resp.Error.Code)
}

func TestProcessorHandler_GetSchema_DecodesName(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	name := "projects/p/locations/us/processors/1"
	processorSvc.On("GetSchema", mock.Anything, name).Return(&domain.ProcessorDetail{
		Processor: domain.Processor{Name: name, DisplayName: "PO Extractor"},
		Fields:    []domain.SchemaField{{Name: "vendor"}},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/processors/x/schema", http.NoBody)
	c.Params = gin.Params{{Key: "name", Value: url.PathEscape(name)}}

	h.GetSchema(c)

	assert.Equal(t, http.StatusOK, w.Code)
	processorSvc.AssertExpectations(t)
}

func TestProcessorHandler_GetSchema_NotFound(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	processorSvc.On("GetSchema", mock.Anything, "missing").Return(nil, domain.ErrProcessorNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/processors/missing/schema", http.NoBody)
	c.Params = gin.Params{{Key: "name", Value: "missing"}}

	h.GetSchema(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProcessorHandler_Create_Success(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	processorSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateProcessorInput")).
		Return(&domain.Processor{Name: "projects/p/locations/us/processors/2", DisplayName: "Invoice"}, nil)

	body := `{"display_name":"Invoice","fields":[{"name":"vendor"}]}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/processors", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	processorSvc.AssertExpectations(t)
}

func TestProcessorHandler_Create_MissingDisplayName(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/processors", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	processorSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessorHandler_Create_ValidationError(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	processorSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateProcessorInput")).
		Return(nil, domain.ErrValidation)

	body := `{"display_name":"Invoice","fields":[{"name":""}]}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/processors", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessorHandler_Delete_Success(t *testing.T) {
	h, processorSvc := newProcessorHandler()

	name := "projects/p/locations/us/processors/1"
	processorSvc.On("Delete", mock.Anything, name).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/processors/x", http.NoBody)
	c.Params = gin.Params{{Key: "name", Value: url.PathEscape(name)}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	processorSvc.AssertExpectations(t)
}
