// Package handlers contains HTTP handlers for the booking API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/driftline-mv/efoil-booking/internal/database"
	"github.com/driftline-mv/efoil-booking/internal/layover"
	"github.com/driftline-mv/efoil-booking/internal/pricing"
	"github.com/driftline-mv/efoil-booking/internal/service"
	"github.com/driftline-mv/efoil-booking/internal/websocket"
	"github.com/gorilla/mux"
)

// Handler contains HTTP handlers for the API.
type Handler struct {
	efoilService service.EfoilService
}

// NewHandler creates a new Handler instance.
func NewHandler(efoilService service.EfoilService) *Handler {
	return &Handler{
		efoilService: efoilService,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// GetAirlines handles GET /api/airlines
func (h *Handler) GetAirlines(w http.ResponseWriter, r *http.Request) {
	airlines := h.efoilService.ListAirlines(r.Context())
	respondJSON(w, http.StatusOK, airlines)
}

// GetArrivals handles GET /api/airlines/{code}/arrivals
func (h *Handler) GetArrivals(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	options, err := h.efoilService.ListArrivals(r.Context(), code)
	if err != nil {
		respondError(w, http.StatusNotFound, "No arrivals for airline")
		return
	}
	respondJSON(w, http.StatusOK, options)
}

// GetDepartures handles GET /api/airlines/{code}/departures
func (h *Handler) GetDepartures(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	options, err := h.efoilService.ListDepartures(r.Context(), code)
	if err != nil {
		respondError(w, http.StatusNotFound, "No departures for airline")
		return
	}
	respondJSON(w, http.StatusOK, options)
}

// GetFlightSlots handles GET /api/flights/{airline}/{number}/slots?date=YYYY-MM-DD
func (h *Handler) GetFlightSlots(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	date := r.URL.Query().Get("date")
	if date == "" {
		respondError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	slotList, err := h.efoilService.GetSlots(r.Context(), vars["airline"], vars["number"], date)
	if err != nil {
		if errors.Is(err, service.ErrFlightNotFound) {
			respondError(w, http.StatusNotFound, "Flight not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, slotList)
}

// GetLayoverWindow handles POST /api/layovers/window
func (h *Handler) GetLayoverWindow(w http.ResponseWriter, r *http.Request) {
	var req service.LayoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Airline == "" || req.ArrivalFlightNumber == "" || req.DepartureFlightNumber == "" || req.Date == "" {
		respondError(w, http.StatusBadRequest, "airline, arrivalFlightNumber, departureFlightNumber and date are required")
		return
	}

	window, err := h.efoilService.LayoverWindow(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFlightNotFound):
			respondError(w, http.StatusNotFound, "Flight not found")
		case errors.Is(err, layover.ErrEmptyWindow):
			respondError(w, http.StatusUnprocessableEntity, "Layover leaves no activity window")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, window)
}

// GetPriceQuote handles GET /api/pricing/quote?guests=N
func (h *Handler) GetPriceQuote(w http.ResponseWriter, r *http.Request) {
	guests, err := strconv.Atoi(r.URL.Query().Get("guests"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "guests query parameter must be an integer")
		return
	}

	quote, err := h.efoilService.QuotePrice(r.Context(), guests)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate request
	if req.Airline == "" || req.FlightNumber == "" {
		respondError(w, http.StatusBadRequest, "Flight selection is required")
		return
	}
	if req.SlotID == "" {
		respondError(w, http.StatusBadRequest, "Slot selection is required")
		return
	}
	if req.ActivityDate == "" {
		respondError(w, http.StatusBadRequest, "Activity date is required")
		return
	}
	if req.Guests <= 0 {
		respondError(w, http.StatusBadRequest, "Guest count must be a positive integer")
		return
	}

	b, err := h.efoilService.CreateBooking(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFlightNotFound), errors.Is(err, service.ErrSlotNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, database.ErrCapacityConflict):
			// Retryable: the caller should pick another slot.
			respondError(w, http.StatusConflict, "Slot has insufficient remaining capacity")
		case errors.Is(err, pricing.ErrInvalidGuestCount):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	websocket.GetHub().BroadcastSlotUpdate(req.Airline+"/"+req.FlightNumber, b.ActivityDate, []websocket.SlotUpdate{
		{SlotID: b.SlotID, Booked: b.Guests},
	})

	respondJSON(w, http.StatusCreated, b)
}

// GetBooking handles GET /api/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]

	status, err := h.efoilService.GetBooking(r.Context(), bookingID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Booking not found")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// CancelBooking handles DELETE /api/bookings/{id}
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]

	if err := h.efoilService.CancelBooking(r.Context(), bookingID); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			respondError(w, http.StatusNotFound, "Booking not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking cancellation requested"})
}

// ConfirmPayment handles POST /api/webhooks/payment
//
// Deliveries are idempotent end to end: a redelivered event signals the
// workflow again and is absorbed there, so the provider always sees success.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var hook service.PaymentWebhook
	if err := json.NewDecoder(r.Body).Decode(&hook); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if hook.BookingID == "" || hook.PaymentIntentID == "" {
		respondError(w, http.StatusBadRequest, "bookingId and paymentIntentId are required")
		return
	}

	if err := h.efoilService.ConfirmPayment(r.Context(), hook); err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
