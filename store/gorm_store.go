package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-ordering-api/apperrors"
	"food-ordering-api/models"
	"food-ordering-api/ratings"

	"gorm.io/gorm"
)

// GormStore implements Store against a gorm database handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err, "restaurant %d", id)
	}
	return &restaurant, nil
}

func (s *GormStore) MenuItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, translate(err, "order %s", id)
	}
	return &order, nil
}

func (s *GormStore) GetOrderWithRestaurant(ctx context.Context, id string) (*models.Order, *models.Restaurant, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	restaurant, err := s.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, nil, err
	}
	return order, restaurant, nil
}

// CreateOrder inserts the order row and its item snapshots in one
// transaction (gorm creates associated rows within the same tx).
func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormStore) SetOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (s *GormStore) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").Preload("Restaurant").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *GormStore) ListRestaurantOrders(ctx context.Context, restaurantID uint, status models.OrderStatus) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Items").Preload("Customer").
		Where("restaurant_id = ?", restaurantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	err := query.Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *GormStore) HasOrderInStatus(ctx context.Context, customerID, restaurantID uint, statuses []models.OrderStatus) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("customer_id = ? AND restaurant_id = ? AND status IN ?", customerID, restaurantID, statuses).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) GetReview(ctx context.Context, customerID, restaurantID uint) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND restaurant_id = ?", customerID, restaurantID).
		First(&review).Error
	if err != nil {
		return nil, translate(err, "review by customer %d for restaurant %d", customerID, restaurantID)
	}
	return &review, nil
}

func (s *GormStore) ListReviews(ctx context.Context, restaurantID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Preload("Customer").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

// CreateReview inserts the review and refreshes the restaurant's
// rating aggregate in one transaction. A duplicate (customer,
// restaurant) pair that slipped past the caller's lookup hits the
// unique index and comes back as ErrConflict.
func (s *GormStore) CreateReview(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: review already exists for this customer and restaurant", apperrors.ErrConflict)
			}
			return err
		}
		return refreshRating(tx, review.RestaurantID)
	})
}

// SaveReview updates the review and refreshes the aggregate in one
// transaction.
func (s *GormStore) SaveReview(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return refreshRating(tx, review.RestaurantID)
	})
}

// DeleteReview removes the review and refreshes the aggregate in one
// transaction.
func (s *GormStore) DeleteReview(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Review{}, review.ID).Error; err != nil {
			return err
		}
		return refreshRating(tx, review.RestaurantID)
	})
}

func (s *GormStore) ReviewAggregate(ctx context.Context, restaurantID uint) (int64, int64, error) {
	count, sum, err := reviewAggregate(s.db.WithContext(ctx), restaurantID)
	return count, sum, err
}

func reviewAggregate(db *gorm.DB, restaurantID uint) (int64, int64, error) {
	var agg struct {
		Count int64
		Sum   int64
	}
	err := db.Model(&models.Review{}).
		Select("COUNT(*) as count, COALESCE(SUM(rating), 0) as sum").
		Where("restaurant_id = ?", restaurantID).
		Scan(&agg).Error
	return agg.Count, agg.Sum, err
}

// refreshRating recomputes the restaurant's denormalized aggregate
// from the live review set within the caller's transaction.
func refreshRating(tx *gorm.DB, restaurantID uint) error {
	count, sum, err := reviewAggregate(tx, restaurantID)
	if err != nil {
		return err
	}
	avg, count := ratings.Recompute(sum, count)
	return tx.Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Updates(map[string]interface{}{"rating_avg": avg, "rating_count": count}).Error
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translate maps gorm's record-not-found onto the shared taxonomy so
// callers never depend on gorm error values.
func translate(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
