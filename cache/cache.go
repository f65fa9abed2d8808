// Package cache keeps order listings in redis so the busy "my orders"
// and owner-dashboard views skip the database on repeat reads. Every
// write to an order invalidates both sides. A nil *Cache is valid and
// disables caching entirely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-ordering-api/models"

	"github.com/go-redis/redis/v8"
)

const listingTTL = 60 * time.Second

type Cache struct {
	rdb *redis.Client
}

// New connects to redis at addr. An empty addr returns nil, which all
// methods treat as "cache disabled".
func New(addr string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func CustomerOrdersKey(customerID uint) string {
	return fmt.Sprintf("orders:customer:%d", customerID)
}

func RestaurantOrdersKey(restaurantID uint) string {
	return fmt.Sprintf("orders:restaurant:%d", restaurantID)
}

// GetOrders loads a cached listing. A miss, a decode failure or a
// disabled cache all report false; the caller falls back to the store.
func (c *Cache) GetOrders(ctx context.Context, key string) ([]models.Order, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, false
	}
	return orders, true
}

// SetOrders stores a listing best-effort; cache errors are ignored.
func (c *Cache) SetOrders(ctx context.Context, key string, orders []models.Order) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(orders)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, listingTTL)
}

// InvalidateOrders drops the listings touched by a change to an order
// belonging to the given customer and restaurant.
func (c *Cache) InvalidateOrders(ctx context.Context, customerID, restaurantID uint) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, CustomerOrdersKey(customerID), RestaurantOrdersKey(restaurantID))
}
