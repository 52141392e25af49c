// Package strikes tracks discipline strikes and the suspensions they
// trigger, plus the daily expiry sweep decision.
package strikes

import (
	"time"

	"boxhub_backend/internal/model"
)

const (
	DefaultMaxStrikes  = 5
	DefaultPenaltyDays = 7
)

// Policy is the box-level discipline configuration.
type Policy struct {
	MaxStrikes  int
	PenaltyDays int
}

func DefaultPolicy() Policy {
	return Policy{MaxStrikes: DefaultMaxStrikes, PenaltyDays: DefaultPenaltyDays}
}

// Apply adds one strike. Reaching the maximum triggers an automatic penalty
// suspension starting today. The count is clamped at the maximum. Returns
// true when a suspension was triggered.
func (p Policy) Apply(user *model.User, today time.Time) bool {
	if int(user.StrikeCount) < p.MaxStrikes {
		user.StrikeCount++
	}
	if int(user.StrikeCount) >= p.MaxStrikes {
		user.SetSuspension(model.SuspensionPenalty, today, today.AddDate(0, 0, p.PenaltyDays))
		return true
	}
	return false
}

// Remove takes one strike back, then clears any suspension and resets the
// count to zero.
func Remove(user *model.User) {
	if user.StrikeCount > 0 {
		user.StrikeCount--
	}
	user.ClearSuspension()
	user.StrikeCount = 0
}

// SweepUser expires a suspension whose end date has passed. Penalty expiry
// also resets the strike count; a holiday window only clears the dates.
// Returns true when the record changed.
func SweepUser(user *model.User, today time.Time) bool {
	if user.SuspensionType == model.SuspensionNone || user.SuspensionType == "" {
		return false
	}
	if user.SuspensionEnd == nil || !today.After(user.SuspensionEnd.Truncate(24*time.Hour)) {
		return false
	}

	if user.SuspensionType == model.SuspensionPenalty {
		user.StrikeCount = 0
	}
	user.ClearSuspension()
	return true
}
