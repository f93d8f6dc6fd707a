package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-hub-backend/internal/middleware"
	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/supabase"
)

type ServicesHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewServicesHandler(dbClient *supabase.DatabaseClient) *ServicesHandler {
	return &ServicesHandler{
		dbClient: dbClient,
	}
}

// CreateService godoc
// @Summary     Publish a service listing
// @Description Creates a new service listing owned by the authenticated creator
// @Tags        services
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateServiceRequest true "Service listing"
// @Success     200 {object} models.ServiceResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /services [post]
func (h *ServicesHandler) CreateService(c *gin.Context) {
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

	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "price must be positive"})
		return
	}

	svc, err := h.dbClient.CreateService(userID, req.Title, req.Price, req.Description, req.Tags, req.CoverURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create service",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toServiceResponse(svc))
}

// ListServices godoc
// @Summary     Browse service listings
// @Description Returns all service listings, or only the caller's own when mine=true
// @Tags        services
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       mine query bool false "Only the caller's listings"
// @Success     200 {object} models.ServiceListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /services [get]
func (h *ServicesHandler) ListServices(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	var services []models.Service
	var err error
	if c.Query("mine") == "true" {
		userID, parseErr := uuid.Parse(userIDStr.(string))
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
			return
		}
		services, err = h.dbClient.ListServicesForCreator(userID)
	} else {
		services, err = h.dbClient.ListServices()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list services",
			Message: err.Error(),
		})
		return
	}

	resp := models.ServiceListResponse{Services: make([]models.ServiceResponse, len(services))}
	for i := range services {
		resp.Services[i] = toServiceResponse(&services[i])
	}

	c.JSON(http.StatusOK, resp)
}

// GetService godoc
// @Summary     Get a service listing
// @Tags        services
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       service_id path string true "Service ID (UUID)"
// @Success     200 {object} models.ServiceResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /services/{service_id} [get]
func (h *ServicesHandler) GetService(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	serviceID, err := uuid.Parse(c.Param("service_id"))
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

	c.JSON(http.StatusOK, toServiceResponse(svc))
}

// DeleteService godoc
// @Summary     Unpublish a service listing
// @Description Deletes a service listing owned by the caller. Existing orders keep their service snapshot.
// @Tags        services
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       service_id path string true "Service ID (UUID)"
// @Success     200 {object} map[string]string "message"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /services/{service_id} [delete]
func (h *ServicesHandler) DeleteService(c *gin.Context) {
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

	serviceID, err := uuid.Parse(c.Param("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid service id"})
		return
	}

	if err := h.dbClient.DeleteService(serviceID, userID); err != nil {
		if supabase.IsNotFound(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete service",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "service deleted successfully"})
}
