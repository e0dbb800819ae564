package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Available   bool   `json:"available" gorm:"default:true"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`
}
