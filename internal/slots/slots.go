// Package slots turns a flight's arrival time into the day's bookable e-foil
// session slots.
package slots

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/driftline-mv/efoil-booking/internal/clock"
	"github.com/driftline-mv/efoil-booking/internal/pricing"
)

const (
	// SlotCount is the nominal number of sessions generated per flight.
	SlotCount = 6
	// SessionMinutes is the on-water duration of one session.
	SessionMinutes = 45
	// LeadMinutes is the gap between touchdown and the first session start.
	LeadMinutes = 60
	// CadenceMinutes is the spacing between session starts: a 45-minute
	// session plus a 15-minute turnaround buffer.
	CadenceMinutes = 60
	// SunsetCutoffHour drops any session that would start at or after 19:00.
	SunsetCutoffHour = 19
	// PopularBadgeThreshold marks a slot popular once this many crew from
	// any airlines already hold it.
	PopularBadgeThreshold = 2
)

// Badge is the aggregate count of travelers from one airline holding a slot.
// Social-proof display only; never a reservation.
type Badge struct {
	ID          string `json:"id"`
	AirlineCode string `json:"airlineCode"`
	Count       int    `json:"count"`
}

// Slot is one bookable session window.
type Slot struct {
	ID        string        `json:"id"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Available bool          `json:"available"`
	BookedBy  []Badge       `json:"bookedBy,omitempty"`
	Price     pricing.Cents `json:"price"`
	IsPopular bool          `json:"isPopular"`
}

// AvailabilityOracle answers whether a slot can still take bookings. The
// production oracle reads persisted booking counts so regeneration is
// deterministic; randomness lives only in DemoOracle.
type AvailabilityOracle interface {
	Available(ctx context.Context, slotID string, activityDate string) (bool, error)
}

// BadgeSource supplies the per-airline crew counts already holding a slot.
type BadgeSource interface {
	Badges(ctx context.Context, slotID string, activityDate string) ([]Badge, error)
}

// Generate produces the session slots following a flight's arrival: up to
// SlotCount sessions starting LeadMinutes after touchdown, one per
// CadenceMinutes, each SessionMinutes long, stopping at the sunset cutoff.
func Generate(ctx context.Context, flightKey, arrivalTime, activityDate string, price pricing.Cents, oracle AvailabilityOracle, badges BadgeSource) ([]Slot, error) {
	arrival, err := clock.Parse(arrivalTime)
	if err != nil {
		return nil, fmt.Errorf("arrival time: %w", err)
	}

	firstStart := arrival + LeadMinutes
	var out []Slot

	for i := 0; i < SlotCount; i++ {
		start := firstStart + i*CadenceMinutes
		if start/60 >= SunsetCutoffHour {
			break
		}
		end := start + SessionMinutes

		slot := Slot{
			ID:        SlotID(flightKey, start),
			StartTime: clock.Format(start),
			EndTime:   clock.Format(end),
			Price:     price,
		}

		slot.Available, err = oracle.Available(ctx, slot.ID, activityDate)
		if err != nil {
			return nil, fmt.Errorf("availability for %s: %w", slot.ID, err)
		}

		if badges != nil {
			slot.BookedBy, err = badges.Badges(ctx, slot.ID, activityDate)
			if err != nil {
				return nil, fmt.Errorf("badges for %s: %w", slot.ID, err)
			}
		}
		slot.IsPopular = badgeTotal(slot.BookedBy) >= PopularBadgeThreshold

		out = append(out, slot)
	}

	return out, nil
}

// SlotID derives the stable slot identity from the flight and start time.
func SlotID(flightKey string, startMinutes int) string {
	return fmt.Sprintf("%s-%02d%02d", flightKey, startMinutes/60, startMinutes%60)
}

func badgeTotal(badges []Badge) int {
	total := 0
	for _, b := range badges {
		total += b.Count
	}
	return total
}

// FixedOracle reports a constant answer for every slot. Used in tests and as
// the open-inventory default before any booking exists.
type FixedOracle bool

func (o FixedOracle) Available(ctx context.Context, slotID, activityDate string) (bool, error) {
	return bool(o), nil
}

// DemoOracle reproduces the demo data path: each slot is available with 80%
// probability. Never wired into the production service.
type DemoOracle struct {
	Rand *rand.Rand
}

func (o DemoOracle) Available(ctx context.Context, slotID, activityDate string) (bool, error) {
	return o.Rand.Float64() > 0.2, nil
}
