package services

import (
	"testing"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fixture ids created by newTestStore
const (
	customerID uint = 1
	ownerID    uint = 2
	strangerID uint = 3
)

func newTestStore(t *testing.T) (*gorm.DB, *store.GormStore, *models.Restaurant, []models.MenuItem) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
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

	users := []models.User{
		{ID: customerID, Name: "Casey", Email: "casey@example.com", PasswordHash: "x", Role: models.RoleCustomer},
		{ID: ownerID, Name: "Olive", Email: "olive@example.com", PasswordHash: "x", Role: models.RoleOwner},
		{ID: strangerID, Name: "Sam", Email: "sam@example.com", PasswordHash: "x", Role: models.RoleCustomer},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}

	restaurant := models.Restaurant{OwnerID: ownerID, Name: "Olive's Kitchen", Address: "1 Main St", IsOpen: true}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}

	menu := []models.MenuItem{
		{RestaurantID: restaurant.ID, Name: "Margherita", Price: 9.50, IsAvailable: true},
		{RestaurantID: restaurant.ID, Name: "Tiramisu", Price: 4.25, IsAvailable: true},
	}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("seed menu: %v", err)
	}

	return db, store.NewGormStore(db), &restaurant, menu
}

// seedOrder inserts an order directly, bypassing the service, so tests
// can start from any status.
func seedOrder(t *testing.T, db *gorm.DB, customer, restaurant uint, status models.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:           uuid.NewString(),
		CustomerID:   customer,
		RestaurantID: restaurant,
		Status:       status,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}
