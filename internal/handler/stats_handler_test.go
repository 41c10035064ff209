package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poflow/internal/domain"
	"poflow/internal/handler"
	"poflow/mocks"
)

func TestStatsHandler_GetStats_Success(t *testing.T) {
	statsSvc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(statsSvc)

	statsSvc.On("GetStats", mock.Anything).Return(&domain.Stats{
		Total:         42,
		Uploaded:      3,
		PendingReview: 14,
		Sent:          25,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    domain.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 42, resp.Data.Total)
	assert.Equal(t, 14, resp.Data.PendingReview)
	statsSvc.AssertExpectations(t)
}

func TestStatsHandler_GetStats_ServiceError(t *testing.T) {
	statsSvc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(statsSvc)

	statsSvc.On("GetStats", mock.Anything).Return(nil, errors.New("query failed"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)

	h.GetStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}
