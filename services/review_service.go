package services

import (
	"context"
	"errors"
	"fmt"

	"food-ordering-api/apperrors"
	"food-ordering-api/models"
	"food-ordering-api/ratings"
	"food-ordering-api/store"
)

// ReviewService owns review writes. The store pairs every review
// mutation with a full aggregate recomputation in one atomic unit, so
// the restaurant's denormalized rating can never drift from the live
// review set no matter the history. ratings.Apply stays available as
// the insert-only fast path should a write-heavy deployment ever need
// it.
type ReviewService struct {
	store store.Store
	// qualifying holds the order statuses that entitle a customer to
	// review a restaurant.
	qualifying []models.OrderStatus
}

func NewReviewService(st store.Store, qualifying []models.OrderStatus) *ReviewService {
	if len(qualifying) == 0 {
		qualifying = []models.OrderStatus{models.StatusCompleted}
	}
	return &ReviewService{store: st, qualifying: qualifying}
}

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CanReview reports whether the customer may create a review for the
// restaurant, with a human-readable reason when they may not.
func (s *ReviewService) CanReview(ctx context.Context, customerID, restaurantID uint) (bool, string, error) {
	eligible, err := s.store.HasOrderInStatus(ctx, customerID, restaurantID, s.qualifying)
	if err != nil {
		return false, "", err
	}
	if !eligible {
		return false, "you can review only after a completed order", nil
	}
	if _, err := s.store.GetReview(ctx, customerID, restaurantID); err == nil {
		return false, "you already reviewed this restaurant", nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return false, "", err
	}
	return true, "", nil
}

// Create inserts a review and updates the restaurant aggregate in one
// transaction. Preconditions: valid rating, a qualifying order by the
// customer at the restaurant, and no prior review for the pair (the
// unique index is the backstop for races past the lookup).
func (s *ReviewService) Create(ctx context.Context, customerID, restaurantID uint, in ReviewInput) (*models.Review, error) {
	if !ratings.ValidRating(in.Rating) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, ratings.MinRating, ratings.MaxRating)
	}
	if _, err := s.store.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	eligible, err := s.store.HasOrderInStatus(ctx, customerID, restaurantID, s.qualifying)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, fmt.Errorf("%w: no qualifying order at this restaurant", apperrors.ErrNotEligible)
	}

	if _, err := s.store.GetReview(ctx, customerID, restaurantID); err == nil {
		return nil, fmt.Errorf("%w: you already reviewed this restaurant", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	review := &models.Review{
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Rating:       in.Rating,
		Comment:      in.Comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	logger.Info().Uint("customer_id", customerID).Uint("restaurant_id", restaurantID).
		Int("rating", in.Rating).Msg("review created")
	return review, nil
}

// Update changes the customer's own review; the store refreshes the
// aggregate in the same atomic unit.
func (s *ReviewService) Update(ctx context.Context, customerID, restaurantID uint, in ReviewInput) (*models.Review, error) {
	if !ratings.ValidRating(in.Rating) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, ratings.MinRating, ratings.MaxRating)
	}
	review, err := s.store.GetReview(ctx, customerID, restaurantID)
	if err != nil {
		return nil, err
	}
	review.Rating = in.Rating
	review.Comment = in.Comment

	if err := s.store.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the customer's own review; the store refreshes the
// aggregate in the same atomic unit.
func (s *ReviewService) Delete(ctx context.Context, customerID, restaurantID uint) error {
	review, err := s.store.GetReview(ctx, customerID, restaurantID)
	if err != nil {
		return err
	}
	return s.store.DeleteReview(ctx, review)
}

// List returns a restaurant's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, restaurantID uint) ([]models.Review, error) {
	return s.store.ListReviews(ctx, restaurantID)
}
