// Package store is the persistence collaborator behind the order and
// review services. Two interchangeable implementations exist: GormStore
// talks to the database directly, APIStore proxies the same contract to
// an external REST backend. The services depend only on the interface.
package store

import (
	"context"

	"food-ordering-api/models"
)

type Store interface {
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	MenuItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)

	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// GetOrderWithRestaurant loads an order together with the
	// restaurant it was placed at, for role resolution.
	GetOrderWithRestaurant(ctx context.Context, id string) (*models.Order, *models.Restaurant, error)
	// CreateOrder persists an order and its line-item snapshots atomically.
	CreateOrder(ctx context.Context, order *models.Order) error
	// SetOrderStatus updates an order's status guarded by the expected
	// previous status, and returns the number of rows affected. Zero
	// means the guard failed: the order moved underneath the caller.
	SetOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (int64, error)
	ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error)
	ListRestaurantOrders(ctx context.Context, restaurantID uint, status models.OrderStatus) ([]models.Order, error)
	// HasOrderInStatus reports whether the customer has at least one
	// order at the restaurant in one of the given statuses.
	HasOrderInStatus(ctx context.Context, customerID, restaurantID uint, statuses []models.OrderStatus) (bool, error)

	GetReview(ctx context.Context, customerID, restaurantID uint) (*models.Review, error)
	ListReviews(ctx context.Context, restaurantID uint) ([]models.Review, error)
	// CreateReview, SaveReview and DeleteReview each persist the
	// review mutation AND refresh the restaurant's denormalized
	// rating aggregate in one all-or-nothing unit. A failure leaves
	// neither applied, so the aggregate can never drift from the live
	// review set.
	CreateReview(ctx context.Context, review *models.Review) error
	SaveReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, review *models.Review) error
	// ReviewAggregate returns the count and rating sum of a
	// restaurant's live reviews.
	ReviewAggregate(ctx context.Context, restaurantID uint) (count, sum int64, err error)
}
