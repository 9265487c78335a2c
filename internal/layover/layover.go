// Package layover computes the time window a crew layover leaves open for an
// activity: after clearing arrival, with enough margin to make the outbound
// flight.
package layover

import (
	"errors"
	"fmt"
	"time"

	"github.com/driftline-mv/efoil-booking/internal/clock"
	"github.com/driftline-mv/efoil-booking/internal/schedule"
)

const (
	// ArrivalBufferMinutes covers immigration and the transfer to the water.
	ArrivalBufferMinutes = 60
	// DepartureBufferMinutes covers getting back and through security.
	DepartureBufferMinutes = 90
)

// ErrEmptyWindow is returned when the layover leaves no usable time between
// the arrival and departure buffers.
var ErrEmptyWindow = errors.New("layover leaves no activity window")

// Layover pairs a crew's inbound and outbound hub flights on one calendar day.
// The caller guarantees both flights belong to the crew's airline and that the
// departure follows the arrival on the same operational day.
type Layover struct {
	Arrival   schedule.Flight `json:"arrival"`
	Departure schedule.Flight `json:"departure"`
	DateStr   string          `json:"date"` // "YYYY-MM-DD", the arrival date
}

// Window is the allowed booking window for activities during a layover.
type Window struct {
	EarliestStart string `json:"earliestStart"` // "HH:MM"
	LatestEnd     string `json:"latestEnd"`     // "HH:MM"
	DateLabel     string `json:"dateLabel"`     // "Tuesday, September 1"
}

// Compute derives the activity window from the paired flights. An empty or
// inverted window is an explicit error rather than a silent nonsense range.
func Compute(l Layover) (*Window, error) {
	arrival, err := clock.Parse(l.Arrival.TimeLocal)
	if err != nil {
		return nil, fmt.Errorf("arrival time: %w", err)
	}
	departure, err := clock.Parse(l.Departure.TimeLocal)
	if err != nil {
		return nil, fmt.Errorf("departure time: %w", err)
	}

	earliest := arrival + ArrivalBufferMinutes
	latest := departure - DepartureBufferMinutes
	if latest < 0 {
		latest = 0
	}

	if earliest >= latest {
		return nil, fmt.Errorf("%w: arrival %s, departure %s", ErrEmptyWindow, l.Arrival.TimeLocal, l.Departure.TimeLocal)
	}

	label, err := DateLabel(l.DateStr)
	if err != nil {
		return nil, err
	}

	return &Window{
		EarliestStart: clock.Format(earliest),
		LatestEnd:     clock.Format(latest),
		DateLabel:     label,
	}, nil
}

// DateLabel renders a "Weekday, Month Day" label for a date-only string.
// Parsing runs in UTC so a date-only value never drifts across midnight in
// the server's local zone.
func DateLabel(dateStr string) (string, error) {
	day, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return "", fmt.Errorf("malformed layover date %q: %w", dateStr, err)
	}
	return day.UTC().Format("Monday, January 2"), nil
}

// Contains reports whether an activity starting at startTime fits inside the
// window near its start; availability filtering upstream uses this.
func (w *Window) Contains(startTime string) (bool, error) {
	start, err := clock.Parse(startTime)
	if err != nil {
		return false, err
	}
	earliest, err := clock.Parse(w.EarliestStart)
	if err != nil {
		return false, err
	}
	latest, err := clock.Parse(w.LatestEnd)
	if err != nil {
		return false, err
	}
	return start >= earliest && start <= latest, nil
}
