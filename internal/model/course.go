package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course Status
type CourseStatus string

const (
	CourseStatusOpen      CourseStatus = "OPEN"
	CourseStatusFull      CourseStatus = "FULL"
	CourseStatusCancelled CourseStatus = "CANCELLED"
)

type Course struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`

	StartsAt        time.Time      `json:"starts_at" gorm:"not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	Weekdays        datatypes.JSON `json:"weekdays"` // e.g. ["Mon","Wed","Fri"] for recurring classes

	PersonLimit int          `json:"person_limit" gorm:"not null"`
	Status      CourseStatus `json:"status" gorm:"default:'OPEN';not null"`

	CoachID uint `json:"coach_id" gorm:"index"`
	BoxID   uint `json:"box_id" gorm:"index"`

	Coach       *User        `json:"-" gorm:"foreignKey:CoachID"`
	Enrollments []Enrollment `json:"enrollments"`
}

// RegisteredCount counts confirmed seats only; waiting-list entries do not
// occupy capacity.
func (c *Course) RegisteredCount() int {
	count := 0
	for _, e := range c.Enrollments {
		if e.Status == EnrollmentRegistered {
			count++
		}
	}
	return count
}
