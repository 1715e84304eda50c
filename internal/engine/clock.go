package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Collaborators read "today" from it; the calculator itself only ever sees a Date.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the calendar date of c.Now() in the clock's own location.
func Today(c Clock) Date {
	return DateOf(c.Now())
}
