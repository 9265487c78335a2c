// Package service orchestrates the booking flow across the flight board,
// slot generation, pricing, persistence, and the Temporal workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/driftline-mv/efoil-booking/internal/booking"
	"github.com/driftline-mv/efoil-booking/internal/database"
	"github.com/driftline-mv/efoil-booking/internal/layover"
	"github.com/driftline-mv/efoil-booking/internal/pricing"
	"github.com/driftline-mv/efoil-booking/internal/schedule"
	"github.com/driftline-mv/efoil-booking/internal/slots"
	"github.com/driftline-mv/efoil-booking/internal/workflows"
	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
)

const (
	// TaskQueue is the Temporal task queue for booking workflows.
	TaskQueue = "efoil-booking-queue"
	// codeRetries bounds confirmation-code regeneration on collision.
	codeRetries = 5
)

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrSlotNotFound    = errors.New("slot not found for flight")
	ErrSlotFull        = database.ErrCapacityConflict
	ErrBookingNotFound = database.ErrNotFound
)

// FlightOption pairs a flight with its picker label.
type FlightOption struct {
	Flight schedule.Flight `json:"flight"`
	Label  string          `json:"label"`
}

// CreateBookingRequest is the API-level booking request.
type CreateBookingRequest struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	ActivityDate  string `json:"activityDate"`
	SlotID        string `json:"slotId"`
	Guests        int    `json:"guests"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

// LayoverRequest asks for the allowed activity window of a crew layover.
type LayoverRequest struct {
	Airline               string `json:"airline"`
	ArrivalFlightNumber   string `json:"arrivalFlightNumber"`
	DepartureFlightNumber string `json:"departureFlightNumber"`
	Date                  string `json:"date"`
}

// PaymentWebhook is the payment collaborator's success callback.
type PaymentWebhook struct {
	BookingID       string `json:"bookingId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// BookingStatusResponse is a booking plus its payment countdown.
type BookingStatusResponse struct {
	Booking          *booking.Booking `json:"booking"`
	RemainingSeconds int              `json:"remainingSeconds"`
}

// EfoilService defines the booking service interface.
type EfoilService interface {
	ListAirlines(ctx context.Context) []string
	ListArrivals(ctx context.Context, airline string) ([]FlightOption, error)
	ListDepartures(ctx context.Context, airline string) ([]FlightOption, error)
	GetSlots(ctx context.Context, airline, flightNumber, activityDate string) ([]slots.Slot, error)
	LayoverWindow(ctx context.Context, req LayoverRequest) (*layover.Window, error)
	QuotePrice(ctx context.Context, guests int) (*pricing.Quote, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*booking.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*BookingStatusResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
	ConfirmPayment(ctx context.Context, hook PaymentWebhook) error
}

// Repo is the repository surface the service needs.
type Repo interface {
	CreateBooking(ctx context.Context, b *booking.Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ReserveSlotCapacity(ctx context.Context, slotID, activityDate string, guests, capacity int) error
	ReleaseSlotCapacity(ctx context.Context, slotID, activityDate string, guests int) error
	BookedGuests(ctx context.Context, slotID, activityDate string) (int, error)
	CrewBadges(ctx context.Context, slotID, activityDate string) ([]slots.Badge, error)
}

// efoilServiceImpl implements EfoilService.
type efoilServiceImpl struct {
	board          *schedule.Board
	repo           Repo
	temporalClient client.Client
	tiers          pricing.Table
	slotCapacity   int
}

// NewEfoilService creates a new EfoilService.
func NewEfoilService(board *schedule.Board, repo Repo, temporalClient client.Client, tiers pricing.Table, slotCapacity int) EfoilService {
	return &efoilServiceImpl{
		board:          board,
		repo:           repo,
		temporalClient: temporalClient,
		tiers:          tiers,
		slotCapacity:   slotCapacity,
	}
}

func (s *efoilServiceImpl) ListAirlines(ctx context.Context) []string {
	return s.board.Airlines()
}

func (s *efoilServiceImpl) ListArrivals(ctx context.Context, airline string) ([]FlightOption, error) {
	flights := s.board.ArrivalsFor(airline)
	if len(flights) == 0 {
		return nil, fmt.Errorf("%w: no arrivals for airline %s", ErrFlightNotFound, airline)
	}
	options := make([]FlightOption, 0, len(flights))
	for _, f := range flights {
		options = append(options, FlightOption{Flight: f, Label: f.ArrivalLabel()})
	}
	return options, nil
}

func (s *efoilServiceImpl) ListDepartures(ctx context.Context, airline string) ([]FlightOption, error) {
	flights := s.board.DeparturesFor(airline)
	if len(flights) == 0 {
		return nil, fmt.Errorf("%w: no departures for airline %s", ErrFlightNotFound, airline)
	}
	options := make([]FlightOption, 0, len(flights))
	for _, f := range flights {
		options = append(options, FlightOption{Flight: f, Label: f.DepartureLabel()})
	}
	return options, nil
}

func (s *efoilServiceImpl) GetSlots(ctx context.Context, airline, flightNumber, activityDate string) ([]slots.Slot, error) {
	flight, ok := s.board.FindArrival(airline, flightNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrFlightNotFound, airline, flightNumber)
	}

	oracle := database.StoreOracle{Counts: s.repo, Capacity: s.slotCapacity}
	badges := database.BadgeStore{Reader: s.repo}

	return slots.Generate(ctx, flight.Key(), flight.TimeLocal, activityDate, s.tiers.Base(), oracle, badges)
}

func (s *efoilServiceImpl) LayoverWindow(ctx context.Context, req LayoverRequest) (*layover.Window, error) {
	arrival, ok := s.board.FindArrival(req.Airline, req.ArrivalFlightNumber)
	if !ok {
		return nil, fmt.Errorf("%w: arrival %s %s", ErrFlightNotFound, req.Airline, req.ArrivalFlightNumber)
	}

	var departure schedule.Flight
	found := false
	for _, f := range s.board.DeparturesFor(req.Airline) {
		if f.FlightNumber == req.DepartureFlightNumber {
			departure = f
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: departure %s %s", ErrFlightNotFound, req.Airline, req.DepartureFlightNumber)
	}

	return layover.Compute(layover.Layover{
		Arrival:   arrival,
		Departure: departure,
		DateStr:   req.Date,
	})
}

func (s *efoilServiceImpl) QuotePrice(ctx context.Context, guests int) (*pricing.Quote, error) {
	return s.tiers.Quote(guests)
}

func (s *efoilServiceImpl) CreateBooking(ctx context.Context, req CreateBookingRequest) (*booking.Booking, error) {
	flight, ok := s.board.FindArrival(req.Airline, req.FlightNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrFlightNotFound, req.Airline, req.FlightNumber)
	}

	generated, err := s.GetSlots(ctx, req.Airline, req.FlightNumber, req.ActivityDate)
	if err != nil {
		return nil, err
	}
	var chosen *slots.Slot
	for i := range generated {
		if generated[i].ID == req.SlotID {
			chosen = &generated[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, req.SlotID)
	}

	b, err := booking.Build(booking.BuildRequest{
		Flight: booking.FlightRef{
			Key:          flight.Key(),
			Airline:      flight.Airline,
			FlightNumber: flight.FlightNumber,
		},
		ActivityDate:  req.ActivityDate,
		Slot:          *chosen,
		Guests:        req.Guests,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}, s.tiers)
	if err != nil {
		return nil, err
	}

	// Capacity is taken before the insert; two crews racing for the last
	// places resolve here, not at read time.
	if err := s.repo.ReserveSlotCapacity(ctx, b.SlotID, b.ActivityDate, b.Guests, s.slotCapacity); err != nil {
		return nil, err
	}

	if err := s.insertWithFreshCode(ctx, b); err != nil {
		if relErr := s.repo.ReleaseSlotCapacity(ctx, b.SlotID, b.ActivityDate, b.Guests); relErr != nil {
			return nil, errors.Join(err, relErr)
		}
		return nil, err
	}

	workflowOptions := client.StartWorkflowOptions{
		ID:        "booking-" + b.ID.String(),
		TaskQueue: TaskQueue,
	}
	_, err = s.temporalClient.ExecuteWorkflow(ctx, workflowOptions, "BookingWorkflow", workflows.BookingWorkflowInput{
		BookingID:     b.ID.String(),
		SlotID:        b.SlotID,
		ActivityDate:  b.ActivityDate,
		Guests:        b.Guests,
		CustomerEmail: b.CustomerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	return b, nil
}

// insertWithFreshCode retries the insert with a regenerated confirmation code
// when the unique constraint catches a collision.
func (s *efoilServiceImpl) insertWithFreshCode(ctx context.Context, b *booking.Booking) error {
	var err error
	for attempt := 0; attempt < codeRetries; attempt++ {
		err = s.repo.CreateBooking(ctx, b)
		if !errors.Is(err, database.ErrDuplicateCode) {
			return err
		}
		b.ConfirmationCode = booking.NewConfirmationCode()
	}
	return fmt.Errorf("confirmation code collisions exhausted %d attempts: %w", codeRetries, err)
}

func (s *efoilServiceImpl) GetBooking(ctx context.Context, bookingID string) (*BookingStatusResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBookingNotFound, bookingID)
	}

	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var remainingSeconds int
	if b.Status == booking.StatusPending {
		deadline := b.CreatedAt.Add(workflows.PaymentWindow)
		if remaining := time.Until(deadline); remaining > 0 {
			remainingSeconds = int(remaining.Seconds())
		}
	}

	return &BookingStatusResponse{Booking: b, RemainingSeconds: remainingSeconds}, nil
}

func (s *efoilServiceImpl) CancelBooking(ctx context.Context, bookingID string) error {
	workflowID := "booking-" + bookingID
	return s.temporalClient.SignalWorkflow(ctx, workflowID, "", workflows.SignalCancelBooking, nil)
}

func (s *efoilServiceImpl) ConfirmPayment(ctx context.Context, hook PaymentWebhook) error {
	workflowID := "booking-" + hook.BookingID
	return s.temporalClient.SignalWorkflow(ctx, workflowID, "", workflows.SignalPaymentConfirmed, workflows.PaymentConfirmedSignal{
		PaymentIntentID: hook.PaymentIntentID,
	})
}
