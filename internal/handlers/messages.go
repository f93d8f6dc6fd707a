package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-hub-backend/internal/middleware"
	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/supabase"
)

type MessagesHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewMessagesHandler(dbClient *supabase.DatabaseClient) *MessagesHandler {
	return &MessagesHandler{
		dbClient: dbClient,
	}
}

// ListMessages godoc
// @Summary     List order messages
// @Description Returns the conversation for an order, oldest first. Only the buyer and the seller can read it.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.MessageListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/messages [get]
func (h *MessagesHandler) ListMessages(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database not configured"})
		return
	}

	userID, orderID, ok := h.parseMessageCall(c)
	if !ok {
		return
	}

	// Participation check doubles as the existence check, so outsiders
	// get the same 404 as a missing order.
	if _, err := h.dbClient.GetOrderForUser(orderID, userID); err != nil {
		if supabase.IsNotFound(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch order",
			Message: err.Error(),
		})
		return
	}

	messages, err := h.dbClient.ListMessages(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch messages",
			Message: err.Error(),
		})
		return
	}

	resp := models.MessageListResponse{Messages: make([]models.MessageResponse, len(messages))}
	for i := range messages {
		resp.Messages[i] = toMessageResponse(&messages[i])
	}

	c.JSON(http.StatusOK, resp)
}

// SendMessage godoc
// @Summary     Send an order message
// @Description Appends a message to the order's conversation
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       request body models.SendMessageRequest true "Message content"
// @Success     201 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/messages [post]
func (h *MessagesHandler) SendMessage(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database not configured"})
		return
	}

	userID, orderID, ok := h.parseMessageCall(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	if _, err := h.dbClient.GetOrderForUser(orderID, userID); err != nil {
		if supabase.IsNotFound(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch order",
			Message: err.Error(),
		})
		return
	}

	message, err := h.dbClient.CreateMessage(orderID, userID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to send message",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(message))
}

func (h *MessagesHandler) parseMessageCall(c *gin.Context) (userID, orderID uuid.UUID, ok bool) {
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
