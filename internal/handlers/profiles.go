package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-hub-backend/internal/middleware"
	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/supabase"
)

type ProfilesHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewProfilesHandler(dbClient *supabase.DatabaseClient) *ProfilesHandler {
	return &ProfilesHandler{
		dbClient: dbClient,
	}
}

// GetProfile godoc
// @Summary     Get a user's public profile
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       user_id path string true "User ID (UUID)"
// @Success     200 {object} models.ProfileResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /profiles/{user_id} [get]
func (h *ProfilesHandler) GetProfile(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database not configured"})
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return
	}

	profile, err := h.dbClient.GetProfile(userID)
	if err != nil {
		if supabase.IsNotFound(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch profile",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile godoc
// @Summary     Update the caller's profile
// @Description Creates the profile row on first write
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UpdateProfileRequest true "Profile fields"
// @Success     200 {object} models.ProfileResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /profiles/me [put]
func (h *ProfilesHandler) UpdateProfile(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database not configured"})
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

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	profile, err := h.dbClient.UpsertProfile(userID, req.DisplayName, req.AvatarURL, req.Bio)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update profile",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}
