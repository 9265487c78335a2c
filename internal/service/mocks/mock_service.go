package mocks

import (
	"context"

	"github.com/driftline-mv/efoil-booking/internal/booking"
	"github.com/driftline-mv/efoil-booking/internal/layover"
	"github.com/driftline-mv/efoil-booking/internal/pricing"
	"github.com/driftline-mv/efoil-booking/internal/service"
	"github.com/driftline-mv/efoil-booking/internal/slots"
	"github.com/stretchr/testify/mock"
)

// MockEfoilService is a mock implementation of EfoilService.
type MockEfoilService struct {
	mock.Mock
}

func (m *MockEfoilService) ListAirlines(ctx context.Context) []string {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockEfoilService) ListArrivals(ctx context.Context, airline string) ([]service.FlightOption, error) {
	args := m.Called(ctx, airline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.FlightOption), args.Error(1)
}

func (m *MockEfoilService) ListDepartures(ctx context.Context, airline string) ([]service.FlightOption, error) {
	args := m.Called(ctx, airline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.FlightOption), args.Error(1)
}

func (m *MockEfoilService) GetSlots(ctx context.Context, airline, flightNumber, activityDate string) ([]slots.Slot, error) {
	args := m.Called(ctx, airline, flightNumber, activityDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slots.Slot), args.Error(1)
}

func (m *MockEfoilService) LayoverWindow(ctx context.Context, req service.LayoverRequest) (*layover.Window, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*layover.Window), args.Error(1)
}

func (m *MockEfoilService) QuotePrice(ctx context.Context, guests int) (*pricing.Quote, error) {
	args := m.Called(ctx, guests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Quote), args.Error(1)
}

func (m *MockEfoilService) CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*booking.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockEfoilService) GetBooking(ctx context.Context, bookingID string) (*service.BookingStatusResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingStatusResponse), args.Error(1)
}

func (m *MockEfoilService) CancelBooking(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockEfoilService) ConfirmPayment(ctx context.Context, hook service.PaymentWebhook) error {
	args := m.Called(ctx, hook)
	return args.Error(0)
}
