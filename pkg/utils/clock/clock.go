package clock

import "time"

// Clock abstracts wall-clock access so the business logic stays testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var current Clock = systemClock{}

// Set swaps the clock implementation. Tests install a fixed clock and
// restore the previous one when done.
func Set(c Clock) Clock {
	prev := current
	current = c
	return prev
}

func Now() time.Time {
	return current.Now()
}

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	return current.Now().UTC().Truncate(24 * time.Hour)
}

// Fixed is a Clock pinned to one instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }
