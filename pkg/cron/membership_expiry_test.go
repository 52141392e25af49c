package cron

import (
	"testing"
	"time"

	"boxhub_backend/pkg/utils/clock"
)

func TestExpiryWindowDate(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		days int
		want string
	}{
		{days: 7, want: "2024-06-17"},
		{days: 3, want: "2024-06-13"},
		// Month rollover.
		{days: 25, want: "2024-07-05"},
	}

	for _, tt := range tests {
		if got := expiryWindowDate(now, tt.days); got != tt.want {
			t.Fatalf("expiryWindowDate(%v, %d) = %q, want %q", now, tt.days, got, tt.want)
		}
	}
}

func TestExpiryWindowFollowsClock(t *testing.T) {
	pinned := time.Date(2024, 12, 28, 23, 0, 0, 0, time.UTC)
	prev := clock.Set(clock.Fixed{At: pinned})
	defer clock.Set(prev)

	if got := expiryWindowDate(clock.Now(), 7); got != "2025-01-04" {
		t.Fatalf("expected year rollover to 2025-01-04, got %q", got)
	}
}
