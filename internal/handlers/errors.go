package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/supabase"
	"ai-hub-backend/internal/workflow"
)

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Lookups that matched no row return 404 so non-participants cannot tell an
// order exists.
func respondWorkflowError(c *gin.Context, err error) {
	if ve, ok := workflow.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation failed",
			Message: ve.Error(),
		})
		return
	}
	if workflow.IsAuthorizationError(err) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
		return
	}
	if workflow.IsRevisionBudgetError(err) {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "revision budget exhausted",
			Message: err.Error(),
		})
		return
	}
	if workflow.IsEmptyHistoryError(err) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "no versions",
			Message: err.Error(),
		})
		return
	}
	if workflow.IsInvalidStateError(err) {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "invalid state",
			Message: err.Error(),
		})
		return
	}
	if errors.Is(err, workflow.ErrConflict) {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "conflict",
			Message: "order was modified concurrently, re-read and retry",
		})
		return
	}
	if supabase.IsNotFound(err) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "not found",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal error",
		Message: err.Error(),
	})
}
