package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"food-ordering-api/apperrors"
	"food-ordering-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormStore(t *testing.T) (*gorm.DB, *GormStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// a single connection keeps every query on the same in-memory db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{}, &models.Review{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	restaurant := &models.Restaurant{ID: 1, OwnerID: 2, Name: "Olive's Kitchen"}
	if err := db.Create(restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return db, NewGormStore(db)
}

// A duplicate (customer, restaurant) insert that races past the
// service's lookup hits the unique index; the caller must see
// ErrConflict, not a driver error string.
func TestCreateReviewDuplicateIsConflict(t *testing.T) {
	_, st := newGormStore(t)
	ctx := context.Background()

	first := &models.Review{CustomerID: 1, RestaurantID: 1, Rating: 5}
	if err := st.CreateReview(ctx, first); err != nil {
		t.Fatalf("first CreateReview: %v", err)
	}

	dup := &models.Review{CustomerID: 1, RestaurantID: 1, Rating: 2}
	err := st.CreateReview(ctx, dup)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate CreateReview error = %v, want ErrConflict", err)
	}
}

// A failed insert must leave the aggregate untouched: the review
// mutation and the rating refresh share one transaction.
func TestCreateReviewFailureLeavesAggregateAlone(t *testing.T) {
	db, st := newGormStore(t)
	ctx := context.Background()

	if err := st.CreateReview(ctx, &models.Review{CustomerID: 1, RestaurantID: 1, Rating: 4}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if err := st.CreateReview(ctx, &models.Review{CustomerID: 1, RestaurantID: 1, Rating: 1}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate CreateReview error = %v, want ErrConflict", err)
	}

	var restaurant models.Restaurant
	if err := db.First(&restaurant, 1).Error; err != nil {
		t.Fatalf("load restaurant: %v", err)
	}
	if restaurant.RatingCount != 1 || math.Abs(restaurant.RatingAvg-4) > 1e-9 {
		t.Fatalf("aggregate = (%v, %d), want (4, 1)", restaurant.RatingAvg, restaurant.RatingCount)
	}
}

func TestReviewWritesRefreshAggregate(t *testing.T) {
	db, st := newGormStore(t)
	ctx := context.Background()

	review := &models.Review{CustomerID: 1, RestaurantID: 1, Rating: 5}
	if err := st.CreateReview(ctx, review); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	other := &models.Review{CustomerID: 3, RestaurantID: 1, Rating: 3}
	if err := st.CreateReview(ctx, other); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	assertAggregate(t, db, 4.0, 2)

	review.Rating = 1
	if err := st.SaveReview(ctx, review); err != nil {
		t.Fatalf("SaveReview: %v", err)
	}
	assertAggregate(t, db, 2.0, 2)

	if err := st.DeleteReview(ctx, other); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	assertAggregate(t, db, 1.0, 1)

	if err := st.DeleteReview(ctx, review); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	assertAggregate(t, db, 0, 0)
}

func assertAggregate(t *testing.T, db *gorm.DB, wantAvg float64, wantCount int64) {
	t.Helper()
	var restaurant models.Restaurant
	if err := db.First(&restaurant, 1).Error; err != nil {
		t.Fatalf("load restaurant: %v", err)
	}
	if restaurant.RatingCount != wantCount || math.Abs(restaurant.RatingAvg-wantAvg) > 1e-9 {
		t.Fatalf("aggregate = (%v, %d), want (%v, %d)",
			restaurant.RatingAvg, restaurant.RatingCount, wantAvg, wantCount)
	}
}
