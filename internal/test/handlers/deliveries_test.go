package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"ai-hub-backend/internal/handlers"
	"ai-hub-backend/internal/middleware"
	"ai-hub-backend/internal/services"
)

func deliveriesRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	fulfillment := services.NewFulfillmentService(nil, nil, nil, 3, zap.NewNop())
	h := handlers.NewDeliveriesHandler(fulfillment)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	router.POST("/orders/:order_id/revision", h.RequestRevision)
	router.POST("/orders/:order_id/deliveries", h.SubmitDelivery)
	return router
}

func TestRequestRevision_Unauthenticated(t *testing.T) {
	router := deliveriesRouter("")

	req, _ := http.NewRequest("POST", "/orders/"+uuid.NewString()+"/revision", strings.NewReader(`{"feedback":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestRevision_InvalidOrderID(t *testing.T) {
	router := deliveriesRouter(uuid.NewString())

	req, _ := http.NewRequest("POST", "/orders/not-a-uuid/revision", strings.NewReader(`{"feedback":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid order id")
}

func TestRequestRevision_MalformedBody(t *testing.T) {
	router := deliveriesRouter(uuid.NewString())

	req, _ := http.NewRequest("POST", "/orders/"+uuid.NewString()+"/revision", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitDelivery_InvalidUserID(t *testing.T) {
	router := deliveriesRouter("not-a-uuid")

	req, _ := http.NewRequest("POST", "/orders/"+uuid.NewString()+"/deliveries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid user id")
}
