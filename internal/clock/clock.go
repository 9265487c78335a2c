// Package clock converts between "HH:MM" local time strings and
// minutes-since-midnight integers used by the slot and layover math.
package clock

import (
	"errors"
	"fmt"
)

// ErrBadClock is returned when a time-of-day string is not zero-padded "HH:MM".
var ErrBadClock = errors.New("malformed time of day")

// Parse converts a zero-padded "HH:MM" string to minutes since midnight.
func Parse(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return h*60 + m, nil
}

// Format converts minutes since midnight back to a zero-padded "HH:MM" string.
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
