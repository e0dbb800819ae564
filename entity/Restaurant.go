package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`

	BusinessName string `json:"businessName"`
	// Owner name, used as the display fallback when no business name is set.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	PhoneNumber string `json:"phoneNumber"`
	Cuisine     string `json:"cuisine"`
	Address     string `json:"address"`

	Approved bool `json:"approved" gorm:"default:false"`
	Blocked  bool `json:"-" gorm:"default:false"`

	MenuItems []MenuItem `json:"-"`
	Orders    []Order    `json:"-"`
}
