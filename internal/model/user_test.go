package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserIsSuspended(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

	u := &User{}
	assert.False(t, u.IsSuspended(now), "fresh user is not suspended")

	u.SetSuspension(SuspensionPenalty, now.AddDate(0, 0, -2), now.AddDate(0, 0, 5))
	assert.True(t, u.IsSuspended(now))
	assert.True(t, u.IsSuspended(now.AddDate(0, 0, 5)), "end date is inclusive")
	assert.False(t, u.IsSuspended(now.AddDate(0, 0, 6)))
	assert.False(t, u.IsSuspended(now.AddDate(0, 0, -3)))

	u.ClearSuspension()
	assert.False(t, u.IsSuspended(now))
	assert.Equal(t, SuspensionNone, u.SuspensionType)
	assert.Nil(t, u.SuspensionStart)
	assert.Nil(t, u.SuspensionEnd)
}

func TestUserIsSuspendedIgnoresDanglingDates(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	// Type set but dates missing should never count as suspended.
	u := &User{SuspensionType: SuspensionHoliday}
	assert.False(t, u.IsSuspended(now))
}

func TestCourseRegisteredCount(t *testing.T) {
	course := &Course{
		Enrollments: []Enrollment{
			{Status: EnrollmentRegistered},
			{Status: EnrollmentWaitingList},
			{Status: EnrollmentRegistered},
		},
	}

	assert.Equal(t, 2, course.RegisteredCount(), "waiting list does not occupy seats")
}

func TestGetFullName(t *testing.T) {
	u := &User{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", u.GetFullName())

	u = &User{FirstName: "Jane"}
	assert.Equal(t, "Jane", u.GetFullName())
}
