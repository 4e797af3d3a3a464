package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agencyos/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newDealRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewDealHandler(nil)
	r.POST("/api/v1/pipeline/deals", h.Create)
	r.GET("/api/v1/pipeline/deals/:id", h.GetByID)
	r.POST("/api/v1/pipeline/deals/:id/items", h.AddItem)
	r.POST("/api/v1/pipeline/deals/:id/send", h.Send)
	return r
}

func TestDealHandler_Create_RejectsMissingFields(t *testing.T) {
	r := newDealRouter()

	// Missing required client_id and title
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/deals", strings.NewReader(`{"notes":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDealHandler_GetByID_RejectsInvalidID(t *testing.T) {
	r := newDealRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pipeline/deals/123", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid deal ID")
}

func TestDealHandler_AddItem_RejectsZeroQuantity(t *testing.T) {
	r := newDealRouter()

	body := `{"product_id":"550e8400-e29b-41d4-a716-446655440000","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/deals/550e8400-e29b-41d4-a716-446655440001/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDealHandler_Send_RejectsInvalidID(t *testing.T) {
	r := newDealRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/deals/nope/send", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
