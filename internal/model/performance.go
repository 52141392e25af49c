package model

import (
	"time"

	"gorm.io/gorm"
)

// PerformanceEntry records a personal result for one exercise.
type PerformanceEntry struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	ExerciseID uint      `json:"exercise_id" gorm:"index;not null"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	AchievedAt time.Time `json:"achieved_at"`

	User     User     `json:"-" gorm:"foreignKey:UserID"`
	Exercise Exercise `json:"exercise" gorm:"foreignKey:ExerciseID"`
}

type WeightEntry struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Weight     float64   `json:"weight" gorm:"not null"`
	MeasuredAt time.Time `json:"measured_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
