package entity

import (
	"gorm.io/gorm"
)

// Driver is a directory record only; dispatch and routing live elsewhere.
type Driver struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhoneNumber  string `json:"phoneNumber"`
	VehiclePlate string `json:"vehiclePlate"`
	Blocked      bool   `json:"-" gorm:"default:false"`
}
