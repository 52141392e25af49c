package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subscription is a membership plan offered by a box.
type Subscription struct {
	gorm.Model
	Name        string  `json:"name" gorm:"uniqueIndex;not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"uniqueIndex;not null"`

	SessionsPerWeek   int `json:"sessions_per_week" gorm:"not null"`
	DurationDays      int `json:"duration_days" gorm:"not null"`
	FreezeDaysAllowed int `json:"freeze_days_allowed" gorm:"default:0"`

	TerminationConditions datatypes.JSON `json:"termination_conditions"`

	BoxID uint `json:"box_id" gorm:"index"`

	StripeProductID string `json:"stripe_product_id"`
	StripePriceID   string `json:"stripe_price_id"`

	Box               *Box               `json:"-" gorm:"foreignKey:BoxID"`
	UserSubscriptions []UserSubscription `json:"-"`
}

// UserSubscription is one user's running instance of a plan. A user holds at
// most one at a time; creating a new one replaces the old one.
type UserSubscription struct {
	gorm.Model
	UserID         uint `json:"user_id" gorm:"index;not null"`
	SubscriptionID uint `json:"subscription_id" gorm:"not null"`

	StartsAt       time.Time `json:"starts_at" gorm:"not null"`
	EndsAt         time.Time `json:"ends_at" gorm:"not null"`
	FreezeDaysLeft int       `json:"freeze_days_left" gorm:"default:0"`

	StripeSubID string `json:"stripe_subscription_id"`

	User         User         `json:"-" gorm:"foreignKey:UserID"`
	Subscription Subscription `json:"subscription" gorm:"foreignKey:SubscriptionID"`
}

// Covers reports whether the membership window contains the given instant.
func (us *UserSubscription) Covers(at time.Time) bool {
	return !at.Before(us.StartsAt) && !at.After(us.EndsAt)
}
