package entity

import (
	"gorm.io/gorm"
)

// OrderItem is an immutable snapshot of a catalog item taken at assembly
// time, so order history survives later menu edits or deletions.
// MenuItemID is kept for traceability only.
type OrderItem struct {
	gorm.Model
	MenuItemID  uint   `json:"itemId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	ItemTotal   int64  `json:"itemTotal"`

	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`
}
