// Package schedule normalizes raw airline schedule records into the
// deduplicated, sorted daily flight board the booking flow works from.
//
// Source data repeats per calendar date; the board treats every flight as
// recurring daily and collapses date-specific duplicates into one canonical
// record keyed by (airline, flightNumber, route).
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// HubAirport is the layover hub all normalization filters against.
const HubAirport = "MLE"

// ErrBadTimestamp is returned when a raw record carries a timestamp that
// cannot be parsed. Records fail at ingestion rather than leaking garbage
// times into slot generation.
var ErrBadTimestamp = errors.New("malformed flight timestamp")

// RawFlight is one record from the upstream schedule feed.
type RawFlight struct {
	Airline          string `json:"airline"`
	FlightNumber     string `json:"flightNumber"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
	DepartureTime    string `json:"departureTime"` // ISO-8601
	ArrivalTime      string `json:"arrivalTime"`   // ISO-8601
}

// Flight is a normalized daily flight: one entry per physical flight, with
// only the local time-of-day retained.
type Flight struct {
	Route        string `json:"route"`
	Airline      string `json:"airline"`
	FlightNumber string `json:"flightNumber"`
	TimeLocal    string `json:"timeLocal"` // "HH:MM"
}

// Key identifies the physical flight regardless of calendar date.
func (f Flight) Key() string {
	return f.Airline + "/" + f.FlightNumber + "/" + f.Route
}

// ArrivalLabel renders the arrival picker line, e.g. "EK652 · DXB-MLE arr 08:25".
func (f Flight) ArrivalLabel() string {
	return fmt.Sprintf("%s · %s arr %s", f.FlightNumber, f.Route, f.TimeLocal)
}

// DepartureLabel renders the departure picker line, e.g. "EK653 · MLE-DXB dep 22:35".
func (f Flight) DepartureLabel() string {
	return fmt.Sprintf("%s · %s dep %s", f.FlightNumber, f.Route, f.TimeLocal)
}

// NormalizeArrivals extracts flights arriving at the hub, keeping the local
// arrival time of the first occurrence of each flight.
func NormalizeArrivals(raw []RawFlight) ([]Flight, error) {
	return normalize(raw, func(r RawFlight) bool {
		return r.ArrivalAirport == HubAirport
	}, func(r RawFlight) string {
		return r.ArrivalTime
	})
}

// NormalizeDepartures extracts flights departing the hub, keeping the local
// departure time of the first occurrence of each flight.
func NormalizeDepartures(raw []RawFlight) ([]Flight, error) {
	return normalize(raw, func(r RawFlight) bool {
		return r.DepartureAirport == HubAirport
	}, func(r RawFlight) string {
		return r.DepartureTime
	})
}

func normalize(raw []RawFlight, match func(RawFlight) bool, stamp func(RawFlight) string) ([]Flight, error) {
	seen := make(map[string]bool)
	var flights []Flight

	for _, r := range raw {
		if !match(r) {
			continue
		}
		local, err := localClock(stamp(r))
		if err != nil {
			return nil, fmt.Errorf("flight %s %s: %w", r.Airline, r.FlightNumber, err)
		}
		f := Flight{
			Route:        r.DepartureAirport + "-" + r.ArrivalAirport,
			Airline:      r.Airline,
			FlightNumber: r.FlightNumber,
			TimeLocal:    local,
		}
		if seen[f.Key()] {
			continue
		}
		seen[f.Key()] = true
		flights = append(flights, f)
	}

	// Fixed-width zero-padded HH:MM makes lexicographic order chronological.
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].TimeLocal < flights[j].TimeLocal
	})

	return flights, nil
}

// localClock pulls the "HH:MM" component out of an ISO timestamp,
// discarding the date.
func localClock(iso string) (string, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBadTimestamp, iso)
}

// Board holds the normalized daily flight board, loaded once at startup.
type Board struct {
	arrivals   []Flight
	departures []Flight
}

// NewBoard normalizes both directions of the raw feed.
func NewBoard(raw []RawFlight) (*Board, error) {
	arrivals, err := NormalizeArrivals(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize arrivals: %w", err)
	}
	departures, err := NormalizeDepartures(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize departures: %w", err)
	}
	return &Board{arrivals: arrivals, departures: departures}, nil
}

// Airlines returns the distinct airline codes present in either direction,
// sorted ascending.
func (b *Board) Airlines() []string {
	set := make(map[string]bool)
	for _, f := range b.arrivals {
		set[f.Airline] = true
	}
	for _, f := range b.departures {
		set[f.Airline] = true
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ArrivalsFor returns the airline's hub arrivals in time order.
func (b *Board) ArrivalsFor(airline string) []Flight {
	return filter(b.arrivals, airline)
}

// DeparturesFor returns the airline's hub departures in time order.
func (b *Board) DeparturesFor(airline string) []Flight {
	return filter(b.departures, airline)
}

// FindArrival looks up a single arrival by airline and flight number.
func (b *Board) FindArrival(airline, flightNumber string) (Flight, bool) {
	for _, f := range b.arrivals {
		if f.Airline == airline && f.FlightNumber == flightNumber {
			return f, true
		}
	}
	return Flight{}, false
}

func filter(flights []Flight, airline string) []Flight {
	var out []Flight
	for _, f := range flights {
		if f.Airline == airline {
			out = append(out, f)
		}
	}
	return out
}
