package reltime

import "time"

// Clock abstracts wall-clock access and timer creation to allow deterministic
// testing. Production code uses RealClock; tests drive a manual clock that
// fires timers on demand.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the cancellable handle returned by Clock.AfterFunc.
// Stop reports whether the call prevented the timer from firing.
type Timer interface {
	Stop() bool
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f to run once after d.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
