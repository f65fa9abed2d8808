package config

import (
	"log"
	"os"
	"strings"

	"food-ordering-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret []byte

// Load reads .env (if present) and resolves config from the
// environment. Call before anything else in main.
func Load() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", "food_ordering_super_secret_2024"))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(getEnv("DB_PATH", "food_ordering.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated")
}

// ReviewQualifyingStatuses returns the order statuses that entitle a
// customer to review a restaurant. Configurable because deployments
// disagree on whether only completed orders qualify; the default is
// completed-only.
func ReviewQualifyingStatuses() []models.OrderStatus {
	raw := getEnv("REVIEW_QUALIFYING_STATUSES", string(models.StatusCompleted))
	var statuses []models.OrderStatus
	for _, part := range strings.Split(raw, ",") {
		status := models.OrderStatus(strings.TrimSpace(part))
		if status.Valid() {
			statuses = append(statuses, status)
		} else if status != "" {
			log.Printf("Ignoring unknown review-qualifying status %q", status)
		}
	}
	if len(statuses) == 0 {
		statuses = []models.OrderStatus{models.StatusCompleted}
	}
	return statuses
}

// RedisAddr returns the redis address for the order-listing cache, or
// empty to disable caching.
func RedisAddr() string { return os.Getenv("REDIS_ADDR") }

// KafkaBroker returns the kafka broker for order events, or empty to
// disable publishing.
func KafkaBroker() string { return os.Getenv("KAFKA_BROKER") }

// KafkaTopic returns the topic order events are published to.
func KafkaTopic() string { return getEnv("KAFKA_TOPIC", "order-events") }

// BackendAPIURL returns the base URL of the external REST backend used
// when STORE_BACKEND=api.
func BackendAPIURL() string { return getEnv("BACKEND_API_URL", "http://localhost:8000/api") }

// StoreBackend selects the persistence strategy: "db" (default) or "api".
func StoreBackend() string { return getEnv("STORE_BACKEND", "db") }
