package entity

import (
	"gorm.io/gorm"
)

type Admin struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Blocked   bool   `json:"-" gorm:"default:false"`
}
