// Package enrollment owns the registration / waiting-list state machine for
// a single course. It is pure decision logic: callers load the course with
// its enrollments, hand the snapshot in, and persist whatever comes back
// inside their own transaction.
package enrollment

import (
	"errors"
	"time"

	"boxhub_backend/internal/model"
)

var (
	ErrAlreadyRegistered = errors.New("user already has an enrollment for this course")
	ErrUserSuspended     = errors.New("user is suspended")
	ErrCourseCancelled   = errors.New("course is cancelled")
	ErrNotEnrolled       = errors.New("user is not registered for this course")
)

// DeriveStatus computes a course's fill status from its confirmed seat count.
// Cancellation is terminal and handled elsewhere; this is never applied to a
// CANCELLED course.
func DeriveStatus(personLimit, registeredCount int) model.CourseStatus {
	if registeredCount >= personLimit {
		return model.CourseStatusFull
	}
	return model.CourseStatusOpen
}

type RegisterDecision struct {
	// Status is the status the new enrollment should be created with.
	Status model.EnrollmentStatus
	// CourseStatus is the course status after the insertion.
	CourseStatus model.CourseStatus
}

// Register decides how a registration attempt lands. A full course does not
// reject: the entry goes onto the waiting list instead. One enrollment per
// (user, course) pair in any status; a waiting-list holder registering again
// is rejected the same way a confirmed member is.
func Register(course *model.Course, user *model.User, now time.Time) (RegisterDecision, error) {
	if course.Status == model.CourseStatusCancelled {
		return RegisterDecision{}, ErrCourseCancelled
	}

	for _, e := range course.Enrollments {
		if e.UserID == user.ID {
			return RegisterDecision{}, ErrAlreadyRegistered
		}
	}

	if user.IsSuspended(now) {
		return RegisterDecision{}, ErrUserSuspended
	}

	registered := course.RegisteredCount()
	if registered >= course.PersonLimit {
		return RegisterDecision{
			Status:       model.EnrollmentWaitingList,
			CourseStatus: DeriveStatus(course.PersonLimit, registered),
		}, nil
	}

	return RegisterDecision{
		Status:       model.EnrollmentRegistered,
		CourseStatus: DeriveStatus(course.PersonLimit, registered+1),
	}, nil
}

type WithdrawDecision struct {
	// Removed is the REGISTERED enrollment to delete.
	Removed *model.Enrollment
	// Promoted, when non-nil, is the waiting-list entry to move to
	// REGISTERED. The caller owes the promoted user a seat-freed
	// notification.
	Promoted *model.Enrollment
	// CourseStatus is the course status after both mutations.
	CourseStatus model.CourseStatus
}

// Withdraw removes a user's confirmed seat and promotes the oldest
// waiting-list entry, if any. Only REGISTERED members may withdraw through
// this path; a waiting-list-only entry is not "enrolled" here. At most one
// promotion happens per withdrawal.
func Withdraw(course *model.Course, userID uint) (WithdrawDecision, error) {
	var removed *model.Enrollment
	for i := range course.Enrollments {
		e := &course.Enrollments[i]
		if e.UserID == userID && e.Status == model.EnrollmentRegistered {
			removed = e
			break
		}
	}
	if removed == nil {
		return WithdrawDecision{}, ErrNotEnrolled
	}

	promoted := nextInLine(course)

	registered := course.RegisteredCount() - 1
	if promoted != nil {
		registered++
	}

	return WithdrawDecision{
		Removed:      removed,
		Promoted:     promoted,
		CourseStatus: DeriveStatus(course.PersonLimit, registered),
	}, nil
}

// RemoveUser clears a user's enrollment whatever its status. A confirmed
// seat goes through the withdrawal path, promotion included; a waiting-list
// entry is dropped without touching the seat count. Callers cascading a user
// deletion run this once per course the user appears in.
func RemoveUser(course *model.Course, userID uint) (WithdrawDecision, error) {
	for i := range course.Enrollments {
		e := &course.Enrollments[i]
		if e.UserID != userID {
			continue
		}
		if e.Status == model.EnrollmentRegistered {
			return Withdraw(course, userID)
		}
		return WithdrawDecision{
			Removed:      e,
			CourseStatus: DeriveStatus(course.PersonLimit, course.RegisteredCount()),
		}, nil
	}
	return WithdrawDecision{}, ErrNotEnrolled
}

// nextInLine picks the earliest-created waiting-list entry. Identical
// timestamps fall back to the lower id so promotion order stays total.
func nextInLine(course *model.Course) *model.Enrollment {
	var next *model.Enrollment
	for i := range course.Enrollments {
		e := &course.Enrollments[i]
		if e.Status != model.EnrollmentWaitingList {
			continue
		}
		if next == nil ||
			e.CreatedAt.Before(next.CreatedAt) ||
			(e.CreatedAt.Equal(next.CreatedAt) && e.ID < next.ID) {
			next = e
		}
	}
	return next
}
