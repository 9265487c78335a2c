// Package activities implements the worker-side effects of the booking
// workflow: status updates, capacity release, and idempotent payment
// confirmation against the repository.
package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/driftline-mv/efoil-booking/internal/booking"
	"github.com/driftline-mv/efoil-booking/internal/database"
	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
)

// Store is the repository surface the activities need.
type Store interface {
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
	SetBookingPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error
	ReleaseSlotCapacity(ctx context.Context, slotID, activityDate string, guests int) error
	RecordPaymentEvent(ctx context.Context, intentID string, bookingID uuid.UUID) error
}

// Activities holds the activity implementations.
type Activities struct {
	store Store
}

// NewActivities creates the activity set.
func NewActivities(store Store) *Activities {
	return &Activities{store: store}
}

// ConfirmBookingInput is the input for ConfirmBooking.
type ConfirmBookingInput struct {
	BookingID       string `json:"bookingId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// ConfirmBookingResult reports whether the payment event was fresh.
type ConfirmBookingResult struct {
	Confirmed bool `json:"confirmed"`
	Duplicate bool `json:"duplicate"`
}

// ConfirmBooking records the payment event and confirms the booking. A
// redelivered payment event is absorbed: the result flags the duplicate and
// nothing changes.
func (a *Activities) ConfirmBooking(ctx context.Context, input ConfirmBookingInput) (*ConfirmBookingResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Confirming booking", "bookingID", input.BookingID, "paymentIntent", input.PaymentIntentID)

	id, err := uuid.Parse(input.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}

	err = a.store.RecordPaymentEvent(ctx, input.PaymentIntentID, id)
	if errors.Is(err, database.ErrDuplicateEvent) {
		logger.Info("Duplicate payment event absorbed", "paymentIntent", input.PaymentIntentID)
		return &ConfirmBookingResult{Duplicate: true}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := a.store.SetBookingPaymentIntent(ctx, id, input.PaymentIntentID); err != nil {
		return nil, err
	}
	if err := a.store.UpdateBookingStatus(ctx, id, booking.StatusConfirmed); err != nil {
		return nil, err
	}

	logger.Info("Booking confirmed", "bookingID", input.BookingID)
	return &ConfirmBookingResult{Confirmed: true}, nil
}

// ReleaseSlotInput is the input for ReleaseSlot.
type ReleaseSlotInput struct {
	SlotID       string `json:"slotId"`
	ActivityDate string `json:"activityDate"`
	Guests       int    `json:"guests"`
	Reason       string `json:"reason"`
}

// ReleaseSlot returns a booking's seats to the slot on cancellation or expiry.
func (a *Activities) ReleaseSlot(ctx context.Context, input ReleaseSlotInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Releasing slot capacity", "slotID", input.SlotID, "guests", input.Guests, "reason", input.Reason)

	return a.store.ReleaseSlotCapacity(ctx, input.SlotID, input.ActivityDate, input.Guests)
}

// UpdateBookingStatusInput is the input for UpdateBookingStatus.
type UpdateBookingStatusInput struct {
	BookingID string         `json:"bookingId"`
	Status    booking.Status `json:"status"`
}

// UpdateBookingStatus moves the booking to a new lifecycle state.
func (a *Activities) UpdateBookingStatus(ctx context.Context, input UpdateBookingStatusInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Updating booking status", "bookingID", input.BookingID, "status", input.Status)

	id, err := uuid.Parse(input.BookingID)
	if err != nil {
		return fmt.Errorf("invalid booking id: %w", err)
	}
	return a.store.UpdateBookingStatus(ctx, id, input.Status)
}
