package enrollment

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"boxhub_backend/internal/model"
)

var testNow = time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)

func testCourse(limit int, enrollments ...model.Enrollment) *model.Course {
	return &model.Course{
		Model:       gorm.Model{ID: 1},
		Title:       "WOD 18:00",
		PersonLimit: limit,
		Status:      DeriveStatus(limit, (&model.Course{Enrollments: enrollments}).RegisteredCount()),
		Enrollments: enrollments,
	}
}

func entry(id, userID uint, status model.EnrollmentStatus, createdAt time.Time) model.Enrollment {
	return model.Enrollment{
		Model:  gorm.Model{ID: id, CreatedAt: createdAt},
		UserID: userID,
		Status: status,
	}
}

func member(id uint) *model.User {
	return &model.User{Model: gorm.Model{ID: id}}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		limit, registered int
		want              model.CourseStatus
	}{
		{limit: 10, registered: 0, want: model.CourseStatusOpen},
		{limit: 10, registered: 9, want: model.CourseStatusOpen},
		{limit: 10, registered: 10, want: model.CourseStatusFull},
		{limit: 1, registered: 1, want: model.CourseStatusFull},
	}

	for _, tt := range tests {
		if got := DeriveStatus(tt.limit, tt.registered); got != tt.want {
			t.Fatalf("DeriveStatus(%d, %d) = %q, want %q", tt.limit, tt.registered, got, tt.want)
		}
	}
}

func TestRegisterOpenCourse(t *testing.T) {
	course := testCourse(2, entry(1, 10, model.EnrollmentRegistered, testNow))

	decision, err := Register(course, member(20), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Status != model.EnrollmentRegistered {
		t.Fatalf("expected REGISTERED, got %q", decision.Status)
	}
	if decision.CourseStatus != model.CourseStatusFull {
		t.Fatalf("last seat taken, expected course FULL, got %q", decision.CourseStatus)
	}
}

func TestRegisterFullCourseJoinsWaitingList(t *testing.T) {
	course := testCourse(2,
		entry(1, 10, model.EnrollmentRegistered, testNow),
		entry(2, 11, model.EnrollmentRegistered, testNow),
	)

	decision, err := Register(course, member(12), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Status != model.EnrollmentWaitingList {
		t.Fatalf("expected WAITING_LIST, got %q", decision.Status)
	}
	if decision.CourseStatus != model.CourseStatusFull {
		t.Fatalf("expected course to stay FULL, got %q", decision.CourseStatus)
	}
}

func TestRegisterAlreadyEnrolled(t *testing.T) {
	for _, status := range []model.EnrollmentStatus{model.EnrollmentRegistered, model.EnrollmentWaitingList} {
		course := testCourse(5, entry(1, 10, status, testNow))

		if _, err := Register(course, member(10), testNow); !errors.Is(err, ErrAlreadyRegistered) {
			t.Fatalf("status %q: expected ErrAlreadyRegistered, got %v", status, err)
		}
	}
}

func TestRegisterSuspendedUser(t *testing.T) {
	course := testCourse(5)
	user := member(10)
	user.SetSuspension(model.SuspensionPenalty, testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 6))

	if _, err := Register(course, user, testNow); !errors.Is(err, ErrUserSuspended) {
		t.Fatalf("expected ErrUserSuspended, got %v", err)
	}
}

func TestRegisterExpiredSuspensionAllowed(t *testing.T) {
	course := testCourse(5)
	user := member(10)
	user.SetSuspension(model.SuspensionPenalty, testNow.AddDate(0, 0, -10), testNow.AddDate(0, 0, -3))

	if _, err := Register(course, user, testNow); err != nil {
		t.Fatalf("suspension over, expected success, got %v", err)
	}
}

func TestRegisterCancelledCourse(t *testing.T) {
	course := testCourse(5)
	course.Status = model.CourseStatusCancelled

	if _, err := Register(course, member(10), testNow); !errors.Is(err, ErrCourseCancelled) {
		t.Fatalf("expected ErrCourseCancelled, got %v", err)
	}
}

func TestWithdrawPromotesOldestWaiting(t *testing.T) {
	course := testCourse(2,
		entry(1, 10, model.EnrollmentRegistered, testNow),
		entry(2, 11, model.EnrollmentRegistered, testNow),
		entry(3, 12, model.EnrollmentWaitingList, testNow.Add(2*time.Minute)),
		entry(4, 13, model.EnrollmentWaitingList, testNow.Add(1*time.Minute)),
	)

	decision, err := Withdraw(course, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Removed.UserID != 10 {
		t.Fatalf("expected user 10 removed, got %d", decision.Removed.UserID)
	}
	if decision.Promoted == nil || decision.Promoted.UserID != 13 {
		t.Fatalf("expected earliest waiting user 13 promoted, got %+v", decision.Promoted)
	}
	if decision.CourseStatus != model.CourseStatusFull {
		t.Fatalf("promotion refills the seat, expected FULL, got %q", decision.CourseStatus)
	}
}

func TestWithdrawPromotionTieBreaksOnID(t *testing.T) {
	sameInstant := testNow.Add(time.Minute)
	course := testCourse(1,
		entry(1, 10, model.EnrollmentRegistered, testNow),
		entry(3, 12, model.EnrollmentWaitingList, sameInstant),
		entry(2, 11, model.EnrollmentWaitingList, sameInstant),
	)

	decision, err := Withdraw(course, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Promoted == nil || decision.Promoted.ID != 2 {
		t.Fatalf("expected lower id 2 promoted on identical timestamps, got %+v", decision.Promoted)
	}
}

func TestWithdrawEmptyWaitingList(t *testing.T) {
	course := testCourse(2,
		entry(1, 10, model.EnrollmentRegistered, testNow),
		entry(2, 11, model.EnrollmentRegistered, testNow),
	)

	decision, err := Withdraw(course, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Promoted != nil {
		t.Fatalf("expected no promotion, got %+v", decision.Promoted)
	}
	if decision.CourseStatus != model.CourseStatusOpen {
		t.Fatalf("expected course OPEN after withdrawal, got %q", decision.CourseStatus)
	}
}

func TestRemoveUserRegisteredSeatPromotesWaiter(t *testing.T) {
	course := testCourse(2,
		entry(1, 10, model.EnrollmentRegistered, testNow),
		entry(2, 11, model.EnrollmentRegistered, testNow),
		entry(3, 12, model.EnrollmentWaitingList, testNow.Add(time.Minute)),
	)

	decision, err := RemoveUser(course, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Removed.UserID != 10 {
		t.Fatalf("expected user 10 removed, got %d", decision.Removed.UserID)
	}
	if decision.Promoted == nil || decision.Promoted.UserID != 12 {
		t.Fatalf("expected waiting user 12 promoted, got %+v", decision.Promoted)
	}
	if decision.CourseStatus != model.CourseStatusFull {
		t.Fatalf("seat refilled, expected FULL, got %q", decision.CourseStatus)
	}
}

func TestRemoveUserRegisteredSeatNoWaiter(t *testing.T) {
	course := testCourse(2,
		entry(1, 10, model.EnrollmentRegistered, testNow),
		entry(2, 11, model.EnrollmentRegistered, testNow),
	)

	decision, err := RemoveUser(course, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Promoted != nil {
		t.Fatalf("expected no promotion, got %+v", decision.Promoted)
	}
	if decision.CourseStatus != model.CourseStatusOpen {
		t.Fatalf("seat freed, expected OPEN, got %q", decision.CourseStatus)
	}
}

func TestRemoveUserWaitingEntryKeepsSeats(t *testing.T) {
	course := testCourse(2,
		entry(1, 10, model.EnrollmentRegistered, testNow),
		entry(2, 11, model.EnrollmentRegistered, testNow),
		entry(3, 12, model.EnrollmentWaitingList, testNow.Add(time.Minute)),
	)

	decision, err := RemoveUser(course, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Removed.ID != 3 {
		t.Fatalf("expected waiting entry 3 removed, got %d", decision.Removed.ID)
	}
	if decision.Promoted != nil {
		t.Fatalf("waiting-list removal must not promote, got %+v", decision.Promoted)
	}
	if decision.CourseStatus != model.CourseStatusFull {
		t.Fatalf("seats untouched, expected FULL, got %q", decision.CourseStatus)
	}
}

func TestRemoveUserNotEnrolled(t *testing.T) {
	course := testCourse(2, entry(1, 10, model.EnrollmentRegistered, testNow))

	if _, err := RemoveUser(course, 99); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestWithdrawRequiresRegisteredSeat(t *testing.T) {
	course := testCourse(2, entry(1, 10, model.EnrollmentWaitingList, testNow))

	if _, err := Withdraw(course, 10); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("waiting-list entry is not withdrawable, expected ErrNotEnrolled, got %v", err)
	}
	if _, err := Withdraw(course, 99); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("unknown user, expected ErrNotEnrolled, got %v", err)
	}
}
