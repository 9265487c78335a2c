package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/driftline-mv/efoil-booking/internal/booking"
	"github.com/driftline-mv/efoil-booking/internal/layover"
	"github.com/driftline-mv/efoil-booking/internal/pricing"
	"github.com/driftline-mv/efoil-booking/internal/service"
	"github.com/driftline-mv/efoil-booking/internal/service/mocks"
	"github.com/driftline-mv/efoil-booking/internal/slots"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/airlines", h.GetAirlines).Methods(http.MethodGet)
	api.HandleFunc("/airlines/{code}/arrivals", h.GetArrivals).Methods(http.MethodGet)
	api.HandleFunc("/airlines/{code}/departures", h.GetDepartures).Methods(http.MethodGet)
	api.HandleFunc("/flights/{airline}/{number}/slots", h.GetFlightSlots).Methods(http.MethodGet)
	api.HandleFunc("/layovers/window", h.GetLayoverWindow).Methods(http.MethodPost)
	api.HandleFunc("/pricing/quote", h.GetPriceQuote).Methods(http.MethodGet)
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", h.CancelBooking).Methods(http.MethodDelete)
	api.HandleFunc("/webhooks/payment", h.ConfirmPayment).Methods(http.MethodPost)
	return r
}

func TestHandler_GetAirlines(t *testing.T) {
	mockService := new(mocks.MockEfoilService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	mockService.On("ListAirlines", mock.Anything).Return([]string{"EK", "QR", "TK"})

	req := httptest.NewRequest(http.MethodGet, "/api/airlines", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []string
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, []string{"EK", "QR", "TK"}, response)

	mockService.AssertExpectations(t)
}

func TestHandler_GetFlightSlots(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		mockReturn     []slots.Slot
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name: "slots returned",
			url:  "/api/flights/EK/652/slots?date=2026-09-01",
			mockReturn: []slots.Slot{
				{ID: "EK/652/DXB-MLE-0925", StartTime: "09:25", EndTime: "10:10", Available: true, Price: 10000},
			},
			mockError:      nil,
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name:           "unknown flight",
			url:            "/api/flights/XX/999/slots?date=2026-09-01",
			mockReturn:     nil,
			mockError:      service.ErrFlightNotFound,
			expectedStatus: http.StatusNotFound,
			shouldCallMock: true,
		},
		{
			name:           "missing date",
			url:            "/api/flights/EK/652/slots",
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name:           "malformed date",
			url:            "/api/flights/EK/652/slots?date=01-09-2026",
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockEfoilService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			if tt.shouldCallMock {
				mockService.On("GetSlots", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), "2026-09-01").Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetLayoverWindow(t *testing.T) {
	validReq := service.LayoverRequest{
		Airline:               "EK",
		ArrivalFlightNumber:   "652",
		DepartureFlightNumber: "653",
		Date:                  "2026-09-01",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *layover.Window
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:        "valid window",
			requestBody: validReq,
			mockReturn: &layover.Window{
				EarliestStart: "09:25",
				LatestEnd:     "20:55",
				DateLabel:     "Tuesday, September 1",
			},
			mockError:      nil,
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name:           "empty window",
			requestBody:    validReq,
			mockReturn:     nil,
			mockError:      layover.ErrEmptyWindow,
			expectedStatus: http.StatusUnprocessableEntity,
			shouldCallMock: true,
		},
		{
			name: "missing fields",
			requestBody: service.LayoverRequest{
				Airline: "EK",
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockEfoilService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("LayoverWindow", mock.Anything, mock.AnythingOfType("service.LayoverRequest")).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/layovers/window", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetPriceQuote(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		mockReturn     *pricing.Quote
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name: "valid quote",
			url:  "/api/pricing/quote?guests=6",
			mockReturn: &pricing.Quote{
				Guests:         6,
				PricePerPerson: 8000,
				Total:          48000,
			},
			mockError:      nil,
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name:           "zero guests",
			url:            "/api/pricing/quote?guests=0",
			mockReturn:     nil,
			mockError:      pricing.ErrInvalidGuestCount,
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: true,
		},
		{
			name:           "non-numeric guests",
			url:            "/api/pricing/quote?guests=many",
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockEfoilService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			if tt.shouldCallMock {
				mockService.On("QuotePrice", mock.Anything, mock.AnythingOfType("int")).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CreateBooking(t *testing.T) {
	bookingID := uuid.New()

	validReq := service.CreateBookingRequest{
		Airline:       "EK",
		FlightNumber:  "652",
		ActivityDate:  "2026-09-01",
		SlotID:        "EK/652/DXB-MLE-0925",
		Guests:        2,
		CustomerName:  "Maya Rasheed",
		CustomerEmail: "maya@example.com",
	}

	tests := []struct {
		name           string
		requestBody    service.CreateBookingRequest
		mockReturn     *booking.Booking
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:        "valid booking",
			requestBody: validReq,
			mockReturn: &booking.Booking{
				ID:               bookingID,
				SlotID:           validReq.SlotID,
				Guests:           2,
				ConfirmationCode: "FLY-A1B2C3",
				Status:           booking.StatusPending,
			},
			mockError:      nil,
			expectedStatus: http.StatusCreated,
			shouldCallMock: true,
		},
		{
			name: "missing flight",
			requestBody: service.CreateBookingRequest{
				ActivityDate: "2026-09-01",
				SlotID:       validReq.SlotID,
				Guests:       2,
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name: "missing slot",
			requestBody: service.CreateBookingRequest{
				Airline:      "EK",
				FlightNumber: "652",
				ActivityDate: "2026-09-01",
				Guests:       2,
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name: "zero guests",
			requestBody: service.CreateBookingRequest{
				Airline:      "EK",
				FlightNumber: "652",
				ActivityDate: "2026-09-01",
				SlotID:       validReq.SlotID,
				Guests:       0,
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name:           "slot at capacity",
			requestBody:    validReq,
			mockReturn:     nil,
			mockError:      service.ErrSlotFull,
			expectedStatus: http.StatusConflict,
			shouldCallMock: true,
		},
		{
			name:           "unknown slot",
			requestBody:    validReq,
			mockReturn:     nil,
			mockError:      service.ErrSlotNotFound,
			expectedStatus: http.StatusNotFound,
			shouldCallMock: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockEfoilService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("CreateBooking", mock.Anything, mock.AnythingOfType("service.CreateBookingRequest")).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetBooking(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name           string
		bookingID      string
		mockReturn     *service.BookingStatusResponse
		mockError      error
		expectedStatus int
	}{
		{
			name:      "booking found",
			bookingID: bookingID.String(),
			mockReturn: &service.BookingStatusResponse{
				Booking: &booking.Booking{
					ID:     bookingID,
					Status: booking.StatusPending,
				},
				RemainingSeconds: 1200,
			},
			mockError:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "booking not found",
			bookingID:      uuid.New().String(),
			mockReturn:     nil,
			mockError:      service.ErrBookingNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockEfoilService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			mockService.On("GetBooking", mock.Anything, tt.bookingID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+tt.bookingID, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CancelBooking(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name           string
		bookingID      string
		mockError      error
		expectedStatus int
	}{
		{
			name:           "successful cancellation",
			bookingID:      bookingID.String(),
			mockError:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "booking not found",
			bookingID:      uuid.New().String(),
			mockError:      service.ErrBookingNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockEfoilService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			mockService.On("CancelBooking", mock.Anything, tt.bookingID).Return(tt.mockError)

			req := httptest.NewRequest(http.MethodDelete, "/api/bookings/"+tt.bookingID, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_ConfirmPayment(t *testing.T) {
	bookingID := uuid.New().String()

	tests := []struct {
		name           string
		requestBody    service.PaymentWebhook
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name: "payment accepted",
			requestBody: service.PaymentWebhook{
				BookingID:       bookingID,
				PaymentIntentID: "pi_3NqXyz",
			},
			mockError:      nil,
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name: "redelivered payment accepted",
			requestBody: service.PaymentWebhook{
				BookingID:       bookingID,
				PaymentIntentID: "pi_3NqXyz",
			},
			mockError:      nil,
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name: "missing payment intent",
			requestBody: service.PaymentWebhook{
				BookingID: bookingID,
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockEfoilService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("ConfirmPayment", mock.Anything, tt.requestBody).Return(tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
