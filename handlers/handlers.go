package handlers

import (
	"errors"
	"net/http"

	"food-ordering-api/apperrors"
	"food-ordering-api/services"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

// Service singletons, wired once from main.
var (
	orderSvc  *services.OrderService
	reviewSvc *services.ReviewService
)

// Init hands the handler layer its service dependencies.
func Init(orders *services.OrderService, reviews *services.ReviewService) {
	orderSvc = orders
	reviewSvc = reviews
}

// writeError maps service errors onto HTTP responses. Every expected
// condition gets its own status; anything else is a 500.
func writeError(c *gin.Context, err error) {
	var invalid *statemachine.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": invalid.Error(),
			"role":  string(invalid.Role),
			"from":  string(invalid.From),
			"to":    string(invalid.To),
		})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
