package database

import (
	"context"

	"github.com/driftline-mv/efoil-booking/internal/slots"
)

// StoreOracle answers slot availability from persisted booking counts,
// replacing the demo path's randomness with a deterministic lookup.
type StoreOracle struct {
	Counts   GuestCounter
	Capacity int
}

// GuestCounter is the slice of the repository the oracle needs.
type GuestCounter interface {
	BookedGuests(ctx context.Context, slotID, activityDate string) (int, error)
}

func (o StoreOracle) Available(ctx context.Context, slotID, activityDate string) (bool, error) {
	booked, err := o.Counts.BookedGuests(ctx, slotID, activityDate)
	if err != nil {
		return false, err
	}
	return booked < o.Capacity, nil
}

// BadgeStore adapts the repository to the slot generator's badge source.
type BadgeStore struct {
	Reader BadgeReader
}

// BadgeReader is the slice of the repository the badge source needs.
type BadgeReader interface {
	CrewBadges(ctx context.Context, slotID, activityDate string) ([]slots.Badge, error)
}

func (b BadgeStore) Badges(ctx context.Context, slotID, activityDate string) ([]slots.Badge, error) {
	return b.Reader.CrewBadges(ctx, slotID, activityDate)
}
