package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleCoach  UserRole = "coach"
	RoleAdmin  UserRole = "admin"
)

type SuspensionType string

const (
	SuspensionNone    SuspensionType = "NONE"
	SuspensionHoliday SuspensionType = "HOLIDAY"
	SuspensionPenalty SuspensionType = "PENALTY"
)

type User struct {
	gorm.Model
	Email    string   `json:"email" gorm:"uniqueIndex;not null"`
	Password string   `json:"-" gorm:"not null"`
	Username string   `json:"username" gorm:"uniqueIndex;not null"`
	Role     UserRole `json:"role" gorm:"default:'member';not null"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Avatar      string `json:"avatar"`

	BoxID uint `json:"box_id" gorm:"index"`

	StrikeCount     uint8          `json:"strike_count" gorm:"default:0"`
	SuspensionType  SuspensionType `json:"suspension_type" gorm:"default:'NONE'"`
	SuspensionStart *time.Time     `json:"suspension_start"`
	SuspensionEnd   *time.Time     `json:"suspension_end"`

	Box         *Box         `json:"-" gorm:"foreignKey:BoxID"`
	Enrollments []Enrollment `json:"-"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsSuspended reports whether the user sits inside an active suspension
// window on the given day. Both holiday freezes and penalty suspensions
// count; callers that care about the kind check SuspensionType themselves.
func (u *User) IsSuspended(at time.Time) bool {
	if u.SuspensionType == SuspensionNone || u.SuspensionType == "" {
		return false
	}
	if u.SuspensionStart == nil || u.SuspensionEnd == nil {
		return false
	}
	day := at.Truncate(24 * time.Hour)
	return !day.Before(u.SuspensionStart.Truncate(24*time.Hour)) &&
		!day.After(u.SuspensionEnd.Truncate(24*time.Hour))
}

// ClearSuspension resets the suspension triple. The triple is only ever
// written as a unit so the type and the dates cannot drift apart.
func (u *User) ClearSuspension() {
	u.SuspensionType = SuspensionNone
	u.SuspensionStart = nil
	u.SuspensionEnd = nil
}

func (u *User) SetSuspension(kind SuspensionType, start, end time.Time) {
	u.SuspensionType = kind
	u.SuspensionStart = &start
	u.SuspensionEnd = &end
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"full_name":    u.GetFullName(),
		"phone_number": u.PhoneNumber,
		"avatar":       u.Avatar,
		"role":         u.Role,
		"strike_count": u.StrikeCount,
	}
}
