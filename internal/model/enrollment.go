package model

import "gorm.io/gorm"

type EnrollmentStatus string

const (
	EnrollmentRegistered  EnrollmentStatus = "REGISTERED"
	EnrollmentWaitingList EnrollmentStatus = "WAITING_LIST"
)

// Enrollment is the join entity between a user and a course. The composite
// unique index enforces at most one enrollment per (user, course) pair in
// any status; concurrent double-registrations hit the constraint instead of
// slipping past the in-memory check.
type Enrollment struct {
	gorm.Model
	UserID   uint             `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID uint             `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	Status   EnrollmentStatus `json:"status" gorm:"not null"`

	User   User   `json:"user" gorm:"foreignKey:UserID"`
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}
