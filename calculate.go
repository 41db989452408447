package reltime

import (
	"math"
	"time"
)

// Unit is one of the fixed relative-time granularities used to phrase an
// offset, from year down to second.
type Unit string

const (
	UnitYear   Unit = "year"
	UnitMonth  Unit = "month"
	UnitWeek   Unit = "week"
	UnitDay    Unit = "day"
	UnitHour   Unit = "hour"
	UnitMinute Unit = "minute"
	UnitSecond Unit = "second"
)

// Fixed unit lengths in seconds. The year is 365 days and the month 30 days
// on purpose: the phrasing is approximate by nature and calendar-aware unit
// lengths would change observable output for existing callers.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3_600
	secondsPerDay    = 86_400
	secondsPerWeek   = 604_800
	secondsPerMonth  = 2_592_000
	secondsPerYear   = 31_536_000
)

// unitTable is walked largest unit first; order is part of the contract.
var unitTable = []struct {
	unit    Unit
	seconds float64
}{
	{UnitYear, secondsPerYear},
	{UnitMonth, secondsPerMonth},
	{UnitWeek, secondsPerWeek},
	{UnitDay, secondsPerDay},
	{UnitHour, secondsPerHour},
	{UnitMinute, secondsPerMinute},
	{UnitSecond, 1},
}

// Parts is the result of bucketing a time offset: the signed magnitude in the
// largest applicable unit, plus the raw offset it was derived from.
// Future offsets are positive, past offsets negative.
type Parts struct {
	// Magnitude is round(Offset / unit length), half away from zero.
	Magnitude int

	// Unit is the largest unit whose rounded magnitude is at least 1.
	// When no unit qualifies the result is 0 seconds.
	Unit Unit

	// Offset is the signed distance to the target in seconds, as sampled
	// when the calculation ran.
	Offset float64
}

// CalculateAt normalizes input and buckets its distance from the given
// reference instant. It exists so that callers owning their own clock can
// avoid the package-level default.
func CalculateAt(input any, now time.Time) (Parts, error) {
	target, err := Normalize(input)
	if err != nil {
		return Parts{}, err
	}
	return bucket(offsetSeconds(target, now)), nil
}

// Calculate buckets the distance between input and the current time as
// reported by the default formatter's clock.
func Calculate(input any) (Parts, error) {
	return Default().Calculate(input)
}

// offsetSeconds computes the signed offset, keeping millisecond resolution.
func offsetSeconds(target, now time.Time) float64 {
	return float64(target.Sub(now).Milliseconds()) / 1000
}

// bucket selects the largest unit whose rounded quotient has magnitude >= 1.
func bucket(offset float64) Parts {
	for _, u := range unitTable {
		if m := roundHalfAway(offset / u.seconds); m != 0 {
			return Parts{Magnitude: m, Unit: u.unit, Offset: offset}
		}
	}
	return Parts{Magnitude: 0, Unit: UnitSecond, Offset: offset}
}

// roundHalfAway rounds half away from zero, matching the bucketing contract.
func roundHalfAway(q float64) int {
	return int(math.Round(q))
}
