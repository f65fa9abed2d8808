package models

import "time"

// Review is one customer's rating of one restaurant. The unique index
// on (customer, restaurant) enforces at most one review per pair.
type Review struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	CustomerID   uint       `json:"customer_id" gorm:"not null;uniqueIndex:uniq_review_customer_restaurant"`
	Customer     User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null;uniqueIndex:uniq_review_customer_restaurant"`
	Restaurant   Restaurant `json:"-" gorm:"foreignKey:RestaurantID"`
	Rating       int        `json:"rating" gorm:"not null"` // 1..5
	Comment      string     `json:"comment"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
