package model

import "gorm.io/gorm"

type Box struct {
	gorm.Model
	Name    string `json:"name" gorm:"uniqueIndex;not null"`
	Address string `json:"address"`
	City    string `json:"city"`
	Email   string `json:"email"`

	Subscriptions []Subscription `json:"-"`
	Courses       []Course       `json:"-"`
}
