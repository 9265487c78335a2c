// Package workflows orchestrates the booking lifecycle: a booking starts
// pending, is confirmed by exactly one payment event, and expires if payment
// never arrives.
package workflows

import (
	"time"

	"github.com/driftline-mv/efoil-booking/internal/activities"
	"github.com/driftline-mv/efoil-booking/internal/booking"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// PaymentWindow is how long a pending booking waits for its payment
	// confirmation before capacity is released.
	PaymentWindow = 30 * time.Minute

	SignalPaymentConfirmed = "payment-confirmed"
	SignalCancelBooking    = "cancel-booking"
	QueryGetState          = "get_state"
)

// BookingWorkflowInput starts a booking workflow.
type BookingWorkflowInput struct {
	BookingID    string `json:"bookingId"`
	SlotID       string `json:"slotId"`
	ActivityDate string `json:"activityDate"`
	Guests       int    `json:"guests"`
	CustomerEmail string `json:"customerEmail"`
}

// BookingWorkflowResult is the terminal outcome.
type BookingWorkflowResult struct {
	Success       bool   `json:"success"`
	FailureReason string `json:"failureReason,omitempty"`
}

// BookingWorkflowState answers the get_state query.
type BookingWorkflowState struct {
	BookingID       string         `json:"bookingId"`
	Status          booking.Status `json:"status"`
	PaymentIntentID string         `json:"paymentIntentId,omitempty"`
	PaymentDeadline time.Time      `json:"paymentDeadline"`
	LastUpdated     time.Time      `json:"lastUpdated"`
}

// PaymentConfirmedSignal carries the payment collaborator's success signal.
// The intent ID is the idempotency key: redeliveries of the same event must
// not confirm twice.
type PaymentConfirmedSignal struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

// BookingWorkflow waits for payment confirmation or cancellation within the
// payment window.
func BookingWorkflow(ctx workflow.Context, input BookingWorkflowInput) (*BookingWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Booking workflow started", "bookingId", input.BookingID)

	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	state := BookingWorkflowState{
		BookingID:       input.BookingID,
		Status:          booking.StatusPending,
		PaymentDeadline: workflow.Now(ctx).Add(PaymentWindow),
		LastUpdated:     workflow.Now(ctx),
	}

	if err := workflow.SetQueryHandler(ctx, QueryGetState, func() (BookingWorkflowState, error) {
		return state, nil
	}); err != nil {
		return nil, err
	}

	paymentCh := workflow.GetSignalChannel(ctx, SignalPaymentConfirmed)
	cancelCh := workflow.GetSignalChannel(ctx, SignalCancelBooking)

	var expired, cancelled bool

	for state.Status == booking.StatusPending && !expired && !cancelled {
		selector := workflow.NewSelector(ctx)

		selector.AddReceive(paymentCh, func(c workflow.ReceiveChannel, more bool) {
			var signal PaymentConfirmedSignal
			c.Receive(ctx, &signal)
			logger.Info("Payment confirmed signal", "paymentIntent", signal.PaymentIntentID)

			var result activities.ConfirmBookingResult
			err := workflow.ExecuteActivity(ctx, "ConfirmBooking", activities.ConfirmBookingInput{
				BookingID:       input.BookingID,
				PaymentIntentID: signal.PaymentIntentID,
			}).Get(ctx, &result)
			if err != nil {
				logger.Error("ConfirmBooking activity failed", "error", err)
				return
			}

			if result.Duplicate {
				logger.Info("Duplicate payment delivery ignored", "paymentIntent", signal.PaymentIntentID)
				return
			}

			state.Status = booking.StatusConfirmed
			state.PaymentIntentID = signal.PaymentIntentID
			state.LastUpdated = workflow.Now(ctx)
		})

		selector.AddReceive(cancelCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			logger.Info("Cancel signal received", "bookingId", input.BookingID)
			cancelled = true
		})

		selector.AddFuture(workflow.NewTimer(ctx, state.PaymentDeadline.Sub(workflow.Now(ctx))), func(f workflow.Future) {
			logger.Info("Payment window expired", "bookingId", input.BookingID)
			expired = true
		})

		selector.Select(ctx)

		if ctx.Err() != nil {
			cancelled = true
		}
	}

	if state.Status == booking.StatusConfirmed {
		logger.Info("Booking workflow complete", "bookingId", input.BookingID)
		return &BookingWorkflowResult{Success: true}, nil
	}

	// Expiry and cancellation both release capacity and close the booking.
	// Run on a disconnected context so cleanup survives workflow cancellation.
	cleanupCtx := ctx
	if ctx.Err() != nil {
		cleanupCtx, _ = workflow.NewDisconnectedContext(ctx)
		cleanupCtx = workflow.WithActivityOptions(cleanupCtx, activityOpts)
	}

	reason := "expired"
	if cancelled {
		reason = "cancelled"
	}

	err := workflow.ExecuteActivity(cleanupCtx, "ReleaseSlot", activities.ReleaseSlotInput{
		SlotID:       input.SlotID,
		ActivityDate: input.ActivityDate,
		Guests:       input.Guests,
		Reason:       reason,
	}).Get(cleanupCtx, nil)
	if err != nil {
		logger.Error("Failed to release slot capacity", "error", err)
	}

	err = workflow.ExecuteActivity(cleanupCtx, "UpdateBookingStatus", activities.UpdateBookingStatusInput{
		BookingID: input.BookingID,
		Status:    booking.StatusCancelled,
	}).Get(cleanupCtx, nil)
	if err != nil {
		logger.Error("Failed to update booking status", "error", err)
	}

	state.Status = booking.StatusCancelled
	state.LastUpdated = workflow.Now(ctx)

	return &BookingWorkflowResult{Success: false, FailureReason: reason}, nil
}
