package reltime

import (
	"math"
	"time"
)

// Refresh tiers: how soon the displayed bucket can next change, by offset
// magnitude. Below a minute the phrase ticks every second, below an hour
// every minute, below a day every hour. At day granularity and beyond the
// display is allowed to freeze until the observed timestamp itself changes.
const (
	refreshTierSecond = time.Second
	refreshTierMinute = time.Minute
	refreshTierHour   = time.Hour
)

// NextWakeDelay returns how long a display may sleep before the phrase for
// the given offset (in seconds) could go stale. The second return value is
// false when no further refresh is needed.
//
// Callers must re-derive the delay from the current offset after every
// wake-up; the offset drifts every tick, so reusing a previous delay turns
// the adaptive schedule into a fixed cadence.
func NextWakeDelay(offsetSeconds float64) (time.Duration, bool) {
	abs := math.Abs(offsetSeconds)
	switch {
	case abs < secondsPerMinute:
		return refreshTierSecond, true
	case abs < secondsPerHour:
		return refreshTierMinute, true
	case abs < secondsPerDay:
		return refreshTierHour, true
	default:
		return 0, false
	}
}
