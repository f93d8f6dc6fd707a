package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-hub-backend/internal/middleware"
	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/services"
)

type DeliveriesHandler struct {
	fulfillment *services.FulfillmentService
}

func NewDeliveriesHandler(fulfillment *services.FulfillmentService) *DeliveriesHandler {
	return &DeliveriesHandler{
		fulfillment: fulfillment,
	}
}

// SubmitDelivery godoc
// @Summary     Submit a deliverable version
// @Description Seller uploads one or more artifacts with prompt parameters and notes. Creates the next version (pending_review) and moves the order to delivered.
// @Tags        deliveries
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       files formData file true "Artifacts (at least one)"
// @Param       prompt_data formData string true "How the artifact was produced"
// @Param       creator_notes formData string true "Notes accompanying the delivery"
// @Success     200 {object} models.VersionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /orders/{order_id}/deliveries [post]
func (h *DeliveriesHandler) SubmitDelivery(c *gin.Context) {
	userID, orderID, ok := h.parseDeliveryCall(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid multipart form",
			Message: err.Error(),
		})
		return
	}

	promptText := c.PostForm("prompt_data")
	notes := c.PostForm("creator_notes")

	var files []services.DeliverableFile
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read file",
				Message: err.Error(),
			})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read file",
				Message: err.Error(),
			})
			return
		}
		files = append(files, services.DeliverableFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	version, err := h.fulfillment.SubmitDelivery(orderID, userID, files, promptText, notes)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, toVersionResponse(version))
}

// ListVersions godoc
// @Summary     List deliverable versions
// @Description Returns the order's version history, oldest first
// @Tags        deliveries
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.VersionListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/versions [get]
func (h *DeliveriesHandler) ListVersions(c *gin.Context) {
	userID, orderID, ok := h.parseDeliveryCall(c)
	if !ok {
		return
	}

	view, err := h.fulfillment.GetOrderView(orderID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	resp := models.VersionListResponse{Versions: make([]models.VersionResponse, len(view.Versions))}
	for i := range view.Versions {
		resp.Versions[i] = toVersionResponse(&view.Versions[i])
	}

	c.JSON(http.StatusOK, resp)
}

// ApproveVersion godoc
// @Summary     Approve the current version
// @Description Buyer accepts the current delivery; the version becomes approved and the order completes.
// @Tags        deliveries
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
// @Router      /orders/{order_id}/approval [post]
func (h *DeliveriesHandler) ApproveVersion(c *gin.Context) {
	userID, orderID, ok := h.parseDeliveryCall(c)
	if !ok {
		return
	}

	if err := h.fulfillment.ApproveCurrentVersion(orderID, userID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "delivery approved, order completed"})
}

// RequestRevision godoc
// @Summary     Request a revision
// @Description Buyer rejects the current delivery with feedback. Spends one revision from the order's budget.
// @Tags        deliveries
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       request body models.RevisionRequest true "Feedback"
// @Success     200 {object} map[string]interface{} "remaining_revisions"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /orders/{order_id}/revision [post]
func (h *DeliveriesHandler) RequestRevision(c *gin.Context) {
	userID, orderID, ok := h.parseDeliveryCall(c)
	if !ok {
		return
	}

	var req models.RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	remaining, err := h.fulfillment.RequestRevision(orderID, userID, req.Feedback)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "revision requested",
		"remaining_revisions": remaining,
	})
}

func (h *DeliveriesHandler) parseDeliveryCall(c *gin.Context) (userID, orderID uuid.UUID, ok bool) {
	if h.fulfillment == nil {
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
