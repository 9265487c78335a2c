package router

import (
	"net/http"

	"github.com/driftline-mv/efoil-booking/internal/handlers"
	"github.com/driftline-mv/efoil-booking/internal/websocket"
	"github.com/gorilla/mux"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Flight schedule
	api.HandleFunc("/airlines", h.GetAirlines).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/airlines/{code}/arrivals", h.GetArrivals).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/airlines/{code}/departures", h.GetDepartures).Methods(http.MethodGet, http.MethodOptions)

	// Slots and pricing
	api.HandleFunc("/flights/{airline}/{number}/slots", h.GetFlightSlots).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/layovers/window", h.GetLayoverWindow).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/pricing/quote", h.GetPriceQuote).Methods(http.MethodGet, http.MethodOptions)

	// Bookings
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.CancelBooking).Methods(http.MethodDelete, http.MethodOptions)

	// Payment provider callback
	api.HandleFunc("/webhooks/payment", h.ConfirmPayment).Methods(http.MethodPost, http.MethodOptions)

	// WebSocket for real-time slot updates
	api.HandleFunc("/flights/{airline}/{number}/ws", websocket.HandleWebSocket)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
