package entity

import (
	"gorm.io/gorm"
)

// Cart is the mutable pre-order bag, one per (customer, restaurant) pair.
// It is cleared, not archived, once an order is assembled from it.
type Cart struct {
	gorm.Model
	CustomerID uint `json:"customerId" gorm:"uniqueIndex:idx_cart_owner"`
	Customer   User `json:"-"`

	RestaurantID uint       `json:"restaurantId" gorm:"uniqueIndex:idx_cart_owner"`
	Restaurant   Restaurant `json:"-"`

	Items []CartItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, it := range c.Items {
		sum += it.Price * int64(it.Quantity)
	}
	return sum
}
