package strikes

import (
	"testing"
	"time"

	"boxhub_backend/internal/model"
)

var today = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func TestApplyBelowMaximum(t *testing.T) {
	user := &model.User{}
	policy := DefaultPolicy()

	for i := 1; i <= 4; i++ {
		if suspended := policy.Apply(user, today); suspended {
			t.Fatalf("strike %d should not suspend", i)
		}
		if int(user.StrikeCount) != i {
			t.Fatalf("expected %d strikes, got %d", i, user.StrikeCount)
		}
	}
	if user.SuspensionType != model.SuspensionNone && user.SuspensionType != "" {
		t.Fatalf("expected no suspension, got %q", user.SuspensionType)
	}
}

func TestFifthStrikeTriggersPenalty(t *testing.T) {
	user := &model.User{StrikeCount: 4}

	if suspended := DefaultPolicy().Apply(user, today); !suspended {
		t.Fatal("fifth strike should trigger a penalty suspension")
	}
	if user.SuspensionType != model.SuspensionPenalty {
		t.Fatalf("expected PENALTY, got %q", user.SuspensionType)
	}
	if user.SuspensionStart == nil || !user.SuspensionStart.Equal(today) {
		t.Fatalf("expected suspension to start today, got %v", user.SuspensionStart)
	}
	if user.SuspensionEnd == nil || !user.SuspensionEnd.Equal(today.AddDate(0, 0, 7)) {
		t.Fatalf("expected suspension end today+7, got %v", user.SuspensionEnd)
	}
}

func TestApplyClampsAtMaximum(t *testing.T) {
	user := &model.User{StrikeCount: 5}

	DefaultPolicy().Apply(user, today)

	if user.StrikeCount != 5 {
		t.Fatalf("count must stay clamped at 5, got %d", user.StrikeCount)
	}
	if user.SuspensionType != model.SuspensionPenalty {
		t.Fatalf("expected penalty re-applied, got %q", user.SuspensionType)
	}
}

func TestRemoveResetsEverything(t *testing.T) {
	user := &model.User{StrikeCount: 5}
	user.SetSuspension(model.SuspensionPenalty, today, today.AddDate(0, 0, 7))

	Remove(user)

	if user.StrikeCount != 0 {
		t.Fatalf("expected strike count 0, got %d", user.StrikeCount)
	}
	if user.SuspensionType != model.SuspensionNone {
		t.Fatalf("expected suspension cleared, got %q", user.SuspensionType)
	}
	if user.SuspensionStart != nil || user.SuspensionEnd != nil {
		t.Fatal("expected suspension dates cleared")
	}
}

func TestSweepExpiredPenalty(t *testing.T) {
	user := &model.User{StrikeCount: 5}
	user.SetSuspension(model.SuspensionPenalty, today.AddDate(0, 0, -10), today.AddDate(0, 0, -1))

	if changed := SweepUser(user, today); !changed {
		t.Fatal("expected sweep to expire the penalty")
	}
	if user.StrikeCount != 0 {
		t.Fatalf("penalty expiry resets strikes, got %d", user.StrikeCount)
	}
	if user.SuspensionType != model.SuspensionNone {
		t.Fatalf("expected suspension cleared, got %q", user.SuspensionType)
	}
}

func TestSweepExpiredHolidayKeepsStrikes(t *testing.T) {
	user := &model.User{StrikeCount: 3}
	user.SetSuspension(model.SuspensionHoliday, today.AddDate(0, 0, -14), today.AddDate(0, 0, -1))

	if changed := SweepUser(user, today); !changed {
		t.Fatal("expected sweep to expire the holiday window")
	}
	if user.StrikeCount != 3 {
		t.Fatalf("holiday expiry must not touch strikes, got %d", user.StrikeCount)
	}
	if user.SuspensionType != model.SuspensionNone {
		t.Fatalf("expected suspension cleared, got %q", user.SuspensionType)
	}
}

func TestSweepLeavesActiveSuspension(t *testing.T) {
	user := &model.User{StrikeCount: 5}
	user.SetSuspension(model.SuspensionPenalty, today.AddDate(0, 0, -2), today.AddDate(0, 0, 5))

	if changed := SweepUser(user, today); changed {
		t.Fatal("suspension still running, sweep must not touch it")
	}
	if user.SuspensionType != model.SuspensionPenalty {
		t.Fatalf("expected suspension kept, got %q", user.SuspensionType)
	}
}

func TestSweepEndsTodayStillActive(t *testing.T) {
	user := &model.User{}
	user.SetSuspension(model.SuspensionHoliday, today.AddDate(0, 0, -5), today)

	if changed := SweepUser(user, today); changed {
		t.Fatal("end date is inclusive, sweep fires only after it")
	}
}

func TestSweepNoSuspension(t *testing.T) {
	user := &model.User{StrikeCount: 2}

	if changed := SweepUser(user, today); changed {
		t.Fatal("nothing to sweep")
	}
}
