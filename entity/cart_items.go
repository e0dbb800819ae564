package entity

import (
	"gorm.io/gorm"
)

// CartItem carries the name and price copied from the catalog row at the
// time it was added, so the assembler never re-reads the menu.
type CartItem struct {
	gorm.Model
	CartID uint `json:"cartId"`
	Cart   Cart `json:"-"`

	MenuItemID uint     `json:"itemId"`
	MenuItem   MenuItem `json:"-"`

	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}
