package reltime

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrUnparseable is returned by every public function when the input cannot
// be resolved to a point in time. Callers are expected to test for it with
// errors.Is and render a placeholder instead of failing.
var ErrUnparseable = errors.New("input is not resolvable to a point in time")

// epochMillisCutoff separates "seconds since epoch" from "milliseconds since
// epoch" for numeric inputs: values with fewer than 13 decimal digits
// (abs < 10^12) are read as seconds. The heuristic is ambiguous for absurdly
// far futures/pasts; that boundary is part of the contract and must not move.
const epochMillisCutoff = 1e12

// calendarLayouts are date-only layouts that resolve to local midnight of the
// named day. Parsing these as local (not UTC) avoids off-by-one-day errors
// across timezones.
var calendarLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
}

// generalLayouts are tried last, in order, for anything the calendar layouts
// did not match. Layouts carrying an explicit zone keep it; the rest are read
// as local time.
var generalLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{time.RFC1123Z, true},
	{time.RFC1123, true},
	{time.RFC822Z, true},
	{time.RFC822, true},
	{time.UnixDate, true},
	{time.ANSIC, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
}

// Normalize converts a heterogeneous timestamp representation into a single
// canonical instant with millisecond resolution.
//
// Accepted inputs: time.Time and *time.Time (identity), integer and float
// epoch values (seconds or milliseconds per the digit-count heuristic), and
// textual dates. Everything else, including nil, yields ErrUnparseable.
// The function is pure: no I/O, deterministic for a given input and host zone.
func Normalize(input any) (time.Time, error) {
	switch v := input.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("nil timestamp pointer: %w", ErrUnparseable)
		}
		return *v, nil
	case int:
		return fromEpoch(float64(v)), nil
	case int32:
		return fromEpoch(float64(v)), nil
	case int64:
		return fromEpoch(float64(v)), nil
	case uint:
		return fromEpoch(float64(v)), nil
	case uint32:
		return fromEpoch(float64(v)), nil
	case uint64:
		return fromEpoch(float64(v)), nil
	case float32:
		return fromEpoch(float64(v)), nil
	case float64:
		return fromEpoch(v), nil
	case string:
		return parseText(v)
	default:
		return time.Time{}, fmt.Errorf("unsupported input type %T: %w", input, ErrUnparseable)
	}
}

// fromEpoch interprets a numeric epoch value using the digit-count heuristic.
func fromEpoch(v float64) time.Time {
	if math.Abs(v) < epochMillisCutoff {
		v *= 1000 // seconds -> milliseconds
	}
	return time.UnixMilli(int64(v))
}

// parseText resolves a textual date. Calendar-date forms win over the general
// layouts so that "2025-07-18" means local midnight, never UTC midnight.
func parseText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string: %w", ErrUnparseable)
	}

	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	for _, g := range generalLayouts {
		var t time.Time
		var err error
		if g.zoned {
			t, err = time.Parse(g.layout, s)
		} else {
			t, err = time.ParseInLocation(g.layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date string %q: %w", s, ErrUnparseable)
}
