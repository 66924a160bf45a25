package service

import "time"

// Clock supplies the current time to the consumption pipeline. Injecting it
// keeps window rolls and daily-cap checks deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// DateIn truncates t to midnight of its calendar day in loc. Daily meal caps
// compare these values, so the event timezone decides where a day ends.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether two timestamps fall on one calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateIn(a, loc).Equal(DateIn(b, loc))
}
