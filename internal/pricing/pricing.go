// Package pricing maps guest counts to per-person prices using a
// group-discount tier ladder. All amounts are integer USD cents; dollars
// appear only at display boundaries.
package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGuestCount = errors.New("guest count must be a positive integer")
	ErrInvalidTable      = errors.New("invalid pricing table")
)

// Cents is an amount in USD minor units.
type Cents int64

// Dollars renders an amount for display.
func (c Cents) Dollars() string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}

// Tier is a guest-count threshold mapping to a per-person price.
type Tier struct {
	MinGuests      int   `json:"minGuests"`
	PricePerPerson Cents `json:"pricePerPerson"`
}

// Table is an ordered tier ladder. Thresholds strictly increase and prices
// never increase as the group grows.
type Table struct {
	tiers []Tier
}

// NewTable validates and builds a Table.
func NewTable(tiers []Tier) (Table, error) {
	if len(tiers) == 0 {
		return Table{}, fmt.Errorf("%w: no tiers", ErrInvalidTable)
	}
	if tiers[0].MinGuests != 1 {
		return Table{}, fmt.Errorf("%w: first tier must start at 1 guest, got %d", ErrInvalidTable, tiers[0].MinGuests)
	}
	for i, tier := range tiers {
		if tier.PricePerPerson <= 0 {
			return Table{}, fmt.Errorf("%w: tier %d has non-positive price", ErrInvalidTable, i)
		}
		if i == 0 {
			continue
		}
		if tier.MinGuests <= tiers[i-1].MinGuests {
			return Table{}, fmt.Errorf("%w: thresholds must strictly increase (tier %d)", ErrInvalidTable, i)
		}
		if tier.PricePerPerson > tiers[i-1].PricePerPerson {
			return Table{}, fmt.Errorf("%w: per-person price must not increase with group size (tier %d)", ErrInvalidTable, i)
		}
	}
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return Table{tiers: out}, nil
}

// DefaultTable is the standard group-discount ladder: $100 solo, $80 from
// five guests, $60 from ten.
func DefaultTable() Table {
	t, err := NewTable([]Tier{
		{MinGuests: 1, PricePerPerson: 10000},
		{MinGuests: 5, PricePerPerson: 8000},
		{MinGuests: 10, PricePerPerson: 6000},
	})
	if err != nil {
		panic(err) // static table, validated at init
	}
	return t
}

// Quote is the pricing outcome for a guest count.
type Quote struct {
	Guests           int   `json:"guests"`
	PricePerPerson   Cents `json:"pricePerPerson"`
	Total            Cents `json:"total"`
	NextTierPrice    Cents `json:"nextTierPrice"`
	GuestsToNextTier int   `json:"guestsToNextTier"`
	AtBasePrice      bool  `json:"atBasePrice"`
}

// Quote selects the highest tier whose threshold the guest count meets.
// GuestsToNextTier is 0 once the best tier is reached.
func (t Table) Quote(guests int) (*Quote, error) {
	if guests <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGuestCount, guests)
	}

	selected := 0
	for i, tier := range t.tiers {
		if tier.MinGuests <= guests {
			selected = i
		}
	}

	q := &Quote{
		Guests:         guests,
		PricePerPerson: t.tiers[selected].PricePerPerson,
		AtBasePrice:    selected == 0,
	}
	q.Total = q.PricePerPerson * Cents(guests)

	if selected < len(t.tiers)-1 {
		next := t.tiers[selected+1]
		q.NextTierPrice = next.PricePerPerson
		q.GuestsToNextTier = next.MinGuests - guests
	} else {
		q.NextTierPrice = q.PricePerPerson
	}

	return q, nil
}

// Base returns the first-tier per-person price, used as the displayed slot price.
func (t Table) Base() Cents {
	return t.tiers[0].PricePerPerson
}
