package handlers

import (
	"net/http"
	"strconv"

	"food-ordering-api/middleware"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
)

func restaurantIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return 0, false
	}
	return uint(id), true
}

// ListReviews returns a restaurant's reviews, newest first (public)
func ListReviews(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}
	reviews, err := reviewSvc.List(c.Request.Context(), restaurantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

// CanReview tells the customer whether they may review the restaurant
func CanReview(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}
	allowed, reason, err := reviewSvc.CanReview(c.Request.Context(), customerID, restaurantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed, "reason": reason})
}

// CreateReview creates the customer's review for a restaurant
func CreateReview(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := reviewSvc.Create(c.Request.Context(), customerID, restaurantID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review created", "review": review})
}

// UpdateReview changes the customer's own review
func UpdateReview(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := reviewSvc.Update(c.Request.Context(), customerID, restaurantID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

// DeleteReview removes the customer's own review
func DeleteReview(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	if err := reviewSvc.Delete(c.Request.Context(), customerID, restaurantID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
