package membership

import (
	"errors"
	"testing"
	"time"

	"boxhub_backend/internal/model"
)

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func testPlan() *model.Subscription {
	return &model.Subscription{
		Name:              "Unlimited",
		DurationDays:      30,
		FreezeDaysAllowed: 10,
	}
}

func TestNewTermDefaultsToNow(t *testing.T) {
	term := NewTerm(testPlan(), nil, testNow)

	if !term.StartsAt.Equal(testNow) {
		t.Fatalf("expected start at now, got %v", term.StartsAt)
	}
	if !term.EndsAt.Equal(testNow.AddDate(0, 0, 30)) {
		t.Fatalf("expected end 30 days out, got %v", term.EndsAt)
	}
	if term.FreezeDaysLeft != 10 {
		t.Fatalf("expected full freeze budget, got %d", term.FreezeDaysLeft)
	}
}

func TestNewTermRequestedStart(t *testing.T) {
	start := testNow.AddDate(0, 0, 5)
	term := NewTerm(testPlan(), &start, testNow)

	if !term.StartsAt.Equal(start) {
		t.Fatalf("expected requested start, got %v", term.StartsAt)
	}
	if !term.EndsAt.Equal(start.AddDate(0, 0, 30)) {
		t.Fatalf("expected end relative to requested start, got %v", term.EndsAt)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, end time.Time
		want       int
	}{
		{start: testNow, end: testNow, want: 0},
		{start: testNow, end: testNow.AddDate(0, 0, 5), want: 5},
		// Partial final day still counts as the epoch-day difference.
		{start: testNow, end: testNow.AddDate(0, 0, 5).Add(3 * time.Hour), want: 5},
	}

	for _, tt := range tests {
		if got := DaysBetween(tt.start, tt.end); got != tt.want {
			t.Fatalf("DaysBetween(%v, %v) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func activeSub() *model.UserSubscription {
	return &model.UserSubscription{
		StartsAt:       testNow.AddDate(0, 0, -10),
		EndsAt:         testNow.AddDate(0, 0, 20),
		FreezeDaysLeft: 10,
	}
}

func TestFreezeConsumesBudget(t *testing.T) {
	sub := activeSub()
	start := testNow.AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 5)

	decision, err := Freeze(sub, start, end, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Days != 5 {
		t.Fatalf("5-day window, got %d days", decision.Days)
	}
	if decision.FreezeDaysLeft != 5 {
		t.Fatalf("expected 5 freeze days left, got %d", decision.FreezeDaysLeft)
	}
	if !decision.NewEnd.Equal(sub.EndsAt.AddDate(0, 0, 5)) {
		t.Fatalf("expected end shifted by 5 days, got %v", decision.NewEnd)
	}
}

func TestFreezeInsufficientBudget(t *testing.T) {
	sub := activeSub()
	sub.FreezeDaysLeft = 5
	start := testNow.AddDate(0, 0, 1)

	_, err := Freeze(sub, start, start.AddDate(0, 0, 6), testNow)
	if !errors.Is(err, ErrInsufficientFreezeDays) {
		t.Fatalf("expected ErrInsufficientFreezeDays, got %v", err)
	}
	// A failed freeze must not touch the subscription.
	if sub.FreezeDaysLeft != 5 {
		t.Fatalf("freeze budget changed on failure: %d", sub.FreezeDaysLeft)
	}
}

func TestFreezeInvalidWindows(t *testing.T) {
	sub := activeSub()

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{name: "start in the past", start: testNow.AddDate(0, 0, -2), end: testNow.AddDate(0, 0, 3)},
		{name: "end in the past", start: testNow, end: testNow.AddDate(0, 0, -1)},
		{name: "start after end", start: testNow.AddDate(0, 0, 5), end: testNow.AddDate(0, 0, 2)},
	}

	for _, tt := range tests {
		if _, err := Freeze(sub, tt.start, tt.end, testNow); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("%s: expected ErrInvalidWindow, got %v", tt.name, err)
		}
	}
}

func TestFreezeSameDayWindowIsFree(t *testing.T) {
	sub := activeSub()
	start := testNow.AddDate(0, 0, 2)

	decision, err := Freeze(sub, start, start, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Days != 0 {
		t.Fatalf("same-day window costs 0 days, got %d", decision.Days)
	}
}

func TestCancelLiftsUnrelatedPenalty(t *testing.T) {
	user := &model.User{StrikeCount: 5}
	user.SetSuspension(model.SuspensionPenalty, testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 6))

	Cancel(user)

	if user.SuspensionType != model.SuspensionNone {
		t.Fatalf("cancellation lifts any suspension, got %q", user.SuspensionType)
	}
	if user.SuspensionStart != nil || user.SuspensionEnd != nil {
		t.Fatal("expected suspension dates cleared")
	}
}

func TestActivateReplacesExistingInstance(t *testing.T) {
	user := &model.User{}
	user.SetSuspension(model.SuspensionHoliday, testNow, testNow.AddDate(0, 0, 3))
	existing := activeSub()

	term, replaced := Activate(testPlan(), existing, user, nil, testNow)

	if !replaced {
		t.Fatal("a held instance must be replaced, never kept alongside the new one")
	}
	if user.SuspensionType != model.SuspensionNone {
		t.Fatalf("replacement lifts the old suspension, got %q", user.SuspensionType)
	}
	if !term.EndsAt.Equal(testNow.AddDate(0, 0, 30)) {
		t.Fatalf("expected fresh 30-day term, got %v", term.EndsAt)
	}
}

func TestActivateFirstInstance(t *testing.T) {
	user := &model.User{}
	user.SetSuspension(model.SuspensionPenalty, testNow, testNow.AddDate(0, 0, 7))

	_, replaced := Activate(testPlan(), nil, user, nil, testNow)

	if replaced {
		t.Fatal("no held instance, nothing to replace")
	}
	if user.SuspensionType != model.SuspensionPenalty {
		t.Fatalf("first activation must not touch the suspension, got %q", user.SuspensionType)
	}
}

func TestCoversWindow(t *testing.T) {
	sub := activeSub()

	if !sub.Covers(testNow) {
		t.Fatal("expected now inside window")
	}
	if sub.Covers(sub.EndsAt.Add(time.Hour)) {
		t.Fatal("expected instant past end outside window")
	}
	if sub.Covers(sub.StartsAt.Add(-time.Hour)) {
		t.Fatal("expected instant before start outside window")
	}
}
