// Package booking assembles confirmed booking records and owns the single
// booking status state machine.
package booking

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/driftline-mv/efoil-booking/internal/pricing"
	"github.com/driftline-mv/efoil-booking/internal/slots"
	"github.com/google/uuid"
)

// Status is the booking lifecycle state. Transitions go through Transition
// only; payment webhooks and cancellations drive them, never the core
// computations.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

var ErrInvalidTransition = errors.New("invalid booking status transition")

// Transition validates a status change and returns the new status.
func Transition(from, to Status) (Status, error) {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

const (
	// CodePrefix starts every confirmation code.
	CodePrefix = "FLY-"
	// codeAlphabet is the fixed 36-character confirmation alphabet.
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// NewConfirmationCode generates a FLY-XXXXXX code. Codes are not globally
// unique by construction; the persistence layer enforces uniqueness and the
// caller regenerates on conflict.
func NewConfirmationCode() string {
	var b strings.Builder
	b.WriteString(CodePrefix)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// Booking is a confirmed excursion reservation. The slot identity and time
// range are snapshotted at booking time; slot sets themselves are regenerated
// per selection and never persisted.
type Booking struct {
	ID               uuid.UUID     `json:"id"`
	FlightKey        string        `json:"flightKey"`
	Airline          string        `json:"airline"`
	FlightNumber     string        `json:"flightNumber"`
	ActivityDate     string        `json:"activityDate"` // "YYYY-MM-DD"
	SlotID           string        `json:"slotId"`
	SlotStart        string        `json:"slotStart"`
	SlotEnd          string        `json:"slotEnd"`
	Guests           int           `json:"guests"`
	PricePerPerson   pricing.Cents `json:"pricePerPerson"`
	TotalPrice       pricing.Cents `json:"totalPrice"`
	ConfirmationCode string        `json:"confirmationCode"`
	Status           Status        `json:"status"`
	PaymentIntentID  *string       `json:"paymentIntentId,omitempty"`
	CustomerName     string        `json:"customerName,omitempty"`
	CustomerEmail    string        `json:"customerEmail,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	ConfirmedAt      *time.Time    `json:"confirmedAt,omitempty"`
}

// BuildRequest carries everything needed to assemble a booking record.
type BuildRequest struct {
	Flight       FlightRef
	ActivityDate string
	Slot         slots.Slot
	Guests       int
	CustomerName string
	CustomerEmail string
}

// FlightRef identifies the flight the excursion is anchored to.
type FlightRef struct {
	Key          string
	Airline      string
	FlightNumber string
}

var (
	ErrMissingFlight = errors.New("booking requires a flight selection")
	ErrMissingSlot   = errors.New("booking requires a slot selection")
)

// Build assembles a pending booking: prices the group through the tier table,
// snapshots the chosen slot, and generates a fresh confirmation code.
func Build(req BuildRequest, table pricing.Table) (*Booking, error) {
	if req.Flight.Key == "" {
		return nil, ErrMissingFlight
	}
	if req.Slot.ID == "" || req.Slot.StartTime == "" {
		return nil, ErrMissingSlot
	}

	quote, err := table.Quote(req.Guests)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		ID:               uuid.New(),
		FlightKey:        req.Flight.Key,
		Airline:          req.Flight.Airline,
		FlightNumber:     req.Flight.FlightNumber,
		ActivityDate:     req.ActivityDate,
		SlotID:           req.Slot.ID,
		SlotStart:        req.Slot.StartTime,
		SlotEnd:          req.Slot.EndTime,
		Guests:           req.Guests,
		PricePerPerson:   quote.PricePerPerson,
		TotalPrice:       quote.Total,
		ConfirmationCode: NewConfirmationCode(),
		Status:           StatusPending,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
