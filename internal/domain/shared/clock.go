package shared

import "time"

// Clock provides the current date to date-driven business rules.
// Lease activation, expiration and billing all compare against Today(),
// so tests inject a fixed clock instead of reading the wall clock.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// SystemClock is the production Clock backed by the wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Today returns the current date truncated to midnight UTC
func (SystemClock) Today() time.Time {
	return DateOf(time.Now())
}

// FixedClock is a Clock pinned to a single instant, for tests
type FixedClock struct {
	Instant time.Time
}

// Now returns the pinned instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}

// Today returns the pinned instant truncated to midnight UTC
func (c FixedClock) Today() time.Time {
	return DateOf(c.Instant)
}

// DateOf truncates a time to its calendar date at midnight UTC.
// All date columns in this system are compared at day granularity.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two times fall on the same calendar date
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
