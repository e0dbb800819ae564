package entity

import (
	"gorm.io/gorm"
)

// User is the customer directory.
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Blocked     bool   `json:"-" gorm:"default:false"`

	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
	Carts  []Cart  `gorm:"foreignKey:CustomerID" json:"-"`
}
