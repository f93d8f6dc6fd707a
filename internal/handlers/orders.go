package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-hub-backend/internal/metrics"
	"ai-hub-backend/internal/middleware"
	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/services"
	"ai-hub-backend/internal/supabase"
)

type OrdersHandler struct {
	dbClient    *supabase.DatabaseClient
	fulfillment *services.FulfillmentService
}

func NewOrdersHandler(dbClient *supabase.DatabaseClient, fulfillment *services.FulfillmentService) *OrdersHandler {
	return &OrdersHandler{
		dbClient:    dbClient,
		fulfillment: fulfillment,
	}
}

// CreateOrder godoc
// @Summary     Place an order
// @Description Creates a pending order for a service. The service's title, price and package are frozen into the order's snapshot so later edits to the listing do not rewrite order history.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateOrderRequest true "Order"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid service id"})
		return
	}

	svc, err := h.dbClient.GetService(serviceID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "service not found",
			Message: err.Error(),
		})
		return
	}

	if svc.CreatorID == userID {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "cannot order your own service"})
		return
	}

	snapshot, _ := json.Marshal(map[string]interface{}{
		"title":        svc.Title,
		"price":        svc.Price,
		"package_name": req.PackageName,
	})

	order, err := h.dbClient.CreateOrder(userID, svc.CreatorID, svc.ID, svc.Price, snapshot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create order",
			Message: err.Error(),
		})
		return
	}

	metrics.OrdersCreatedTotal.Inc()

	view := &services.OrderView{
		Order:              order,
		Role:               "buyer",
		RemainingRevisions: h.fulfillment.MaxRevisions(),
		MaxRevisions:       h.fulfillment.MaxRevisions(),
	}
	c.JSON(http.StatusOK, toOrderResponse(view))
}

// ListOrders godoc
// @Summary     List orders
// @Description Returns the caller's orders as buyer (default) or as seller
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       role query string false "buyer or seller" default(buyer)
// @Success     200 {object} models.OrderListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return
	}

	var orders []models.Order
	switch c.DefaultQuery("role", "buyer") {
	case "buyer":
		orders, err = h.dbClient.ListOrdersForBuyer(userID)
	case "seller":
		orders, err = h.dbClient.ListOrdersForSeller(userID)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "role must be buyer or seller"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	resp := models.OrderListResponse{Orders: make([]models.OrderSummary, len(orders))}
	for i := range orders {
		resp.Orders[i] = toOrderSummary(&orders[i])
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrder godoc
// @Summary     Get order details
// @Description Returns the order, its version history and the remaining revision budget. Only the buyer and the seller can see an order.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	userID, orderID, ok := h.parseOrderCall(c)
	if !ok {
		return
	}

	view, err := h.fulfillment.GetOrderView(orderID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(view))
}

// AcceptOrder godoc
// @Summary     Accept an order
// @Description Seller takes a pending order into work (pending -> processing)
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} map[string]string "message"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /orders/{order_id}/accept [post]
func (h *OrdersHandler) AcceptOrder(c *gin.Context) {
	userID, orderID, ok := h.parseOrderCall(c)
	if !ok {
		return
	}

	if err := h.fulfillment.AcceptOrder(orderID, userID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order accepted"})
}

// CancelOrder godoc
// @Summary     Cancel an order
// @Description Either party closes a not-yet-terminal order (-> cancelled)
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} map[string]string "message"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /orders/{order_id}/cancel [post]
func (h *OrdersHandler) CancelOrder(c *gin.Context) {
	userID, orderID, ok := h.parseOrderCall(c)
	if !ok {
		return
	}

	if err := h.fulfillment.CancelOrder(orderID, userID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

func (h *OrdersHandler) parseOrderCall(c *gin.Context) (userID, orderID uuid.UUID, ok bool) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return uuid.Nil, uuid.Nil, false
	}

	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, uuid.Nil, false
	}

	orderID, err = uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, orderID, true
}
