// Package membership owns the lifecycle arithmetic of a user's plan
// instance: term computation at purchase and freeze-day accounting. Like the
// enrollment engine it performs no I/O; controllers apply the returned
// decisions inside a transaction.
package membership

import (
	"errors"
	"time"

	"boxhub_backend/internal/model"
)

var (
	ErrInvalidWindow          = errors.New("freeze window is invalid")
	ErrInsufficientFreezeDays = errors.New("not enough freeze days left")
)

type Term struct {
	StartsAt       time.Time
	EndsAt         time.Time
	FreezeDaysLeft int
}

// NewTerm computes the window of a fresh plan instance. The end date is the
// start plus the plan duration in days, fixed once here; later freezes extend
// it.
func NewTerm(plan *model.Subscription, requestedStart *time.Time, now time.Time) Term {
	start := now
	if requestedStart != nil {
		start = *requestedStart
	}
	return Term{
		StartsAt:       start,
		EndsAt:         start.AddDate(0, 0, plan.DurationDays),
		FreezeDaysLeft: plan.FreezeDaysAllowed,
	}
}

// Cancel applies the user-side effect of removing a plan instance: the
// owner's suspension triple is lifted unconditionally, a running penalty
// included. Dropping the membership always resets the recorded window.
func Cancel(user *model.User) {
	user.ClearSuspension()
}

// Activate computes the term for a new plan instance and decides whether an
// existing instance must be replaced. A user holds at most one instance at a
// time; replacement carries the cancellation semantics, so the old
// suspension window is lifted along with the old instance.
func Activate(plan *model.Subscription, existing *model.UserSubscription, user *model.User, requestedStart *time.Time, now time.Time) (Term, bool) {
	replaced := existing != nil
	if replaced {
		Cancel(user)
	}
	return NewTerm(plan, requestedStart, now), replaced
}

type FreezeDecision struct {
	Days           int
	NewEnd         time.Time
	FreezeDaysLeft int
}

// Freeze validates a pause window against the remaining freeze budget and
// returns the extension to apply. The day count is the epoch-day difference
// between the two dates, so a Monday-to-Saturday window costs 5 days, not 6.
func Freeze(sub *model.UserSubscription, freezeStart, freezeEnd, now time.Time) (FreezeDecision, error) {
	today := now.Truncate(24 * time.Hour)
	if freezeStart.Truncate(24*time.Hour).Before(today) ||
		freezeEnd.Truncate(24*time.Hour).Before(today) ||
		freezeStart.After(freezeEnd) {
		return FreezeDecision{}, ErrInvalidWindow
	}

	days := DaysBetween(freezeStart, freezeEnd)
	if days > sub.FreezeDaysLeft {
		return FreezeDecision{}, ErrInsufficientFreezeDays
	}

	return FreezeDecision{
		Days:           days,
		NewEnd:         sub.EndsAt.AddDate(0, 0, days),
		FreezeDaysLeft: sub.FreezeDaysLeft - days,
	}, nil
}

// DaysBetween returns the whole-day span from start to end as an epoch-day
// difference.
func DaysBetween(start, end time.Time) int {
	const day = 24 * time.Hour
	return int(end.UTC().Truncate(day).Sub(start.UTC().Truncate(day)) / day)
}
