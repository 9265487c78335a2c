// Package database persists bookings and slot capacity in PostgreSQL. It is
// the only place capacity is decremented and the only authority on
// confirmation-code uniqueness and payment-event idempotency.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/driftline-mv/efoil-booking/internal/booking"
	"github.com/driftline-mv/efoil-booking/internal/slots"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrCapacityConflict = errors.New("slot has insufficient remaining capacity")
	ErrDuplicateCode    = errors.New("confirmation code already in use")
	ErrDuplicateEvent   = errors.New("payment event already recorded")
)

const uniqueViolation = "23505"

// Repository handles all database operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate creates the schema if it does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			flight_key TEXT NOT NULL,
			airline TEXT NOT NULL,
			flight_number TEXT NOT NULL,
			activity_date TEXT NOT NULL,
			slot_id TEXT NOT NULL,
			slot_start TEXT NOT NULL,
			slot_end TEXT NOT NULL,
			guests INT NOT NULL CHECK (guests > 0),
			price_per_person BIGINT NOT NULL,
			total_price BIGINT NOT NULL,
			confirmation_code TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_intent_id TEXT,
			customer_name TEXT NOT NULL DEFAULT '',
			customer_email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			confirmed_at TIMESTAMPTZ,
			CONSTRAINT bookings_confirmation_code_key UNIQUE (confirmation_code)
		)`,
		`CREATE INDEX IF NOT EXISTS bookings_slot_idx ON bookings (slot_id, activity_date)`,
		`CREATE TABLE IF NOT EXISTS slot_capacity (
			slot_id TEXT NOT NULL,
			activity_date TEXT NOT NULL,
			booked INT NOT NULL DEFAULT 0 CHECK (booked >= 0),
			PRIMARY KEY (slot_id, activity_date)
		)`,
		`CREATE TABLE IF NOT EXISTS payment_events (
			payment_intent_id TEXT PRIMARY KEY,
			booking_id UUID NOT NULL,
			received_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// --- Booking Operations ---

// CreateBooking inserts a booking row. A confirmation-code collision surfaces
// as ErrDuplicateCode so the caller can regenerate and retry.
func (r *Repository) CreateBooking(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, flight_key, airline, flight_number, activity_date,
		                      slot_id, slot_start, slot_end, guests, price_per_person,
		                      total_price, confirmation_code, status, customer_name, customer_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		b.ID, b.FlightKey, b.Airline, b.FlightNumber, b.ActivityDate,
		b.SlotID, b.SlotStart, b.SlotEnd, b.Guests, b.PricePerPerson,
		b.TotalPrice, b.ConfirmationCode, b.Status, b.CustomerName, b.CustomerEmail,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetBookingByID returns a booking by ID.
func (r *Repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `
		SELECT id, flight_key, airline, flight_number, activity_date, slot_id,
		       slot_start, slot_end, guests, price_per_person, total_price,
		       confirmation_code, status, payment_intent_id, customer_name,
		       customer_email, created_at, updated_at, confirmed_at
		FROM bookings
		WHERE id = $1
	`

	var b booking.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.FlightKey, &b.Airline, &b.FlightNumber, &b.ActivityDate, &b.SlotID,
		&b.SlotStart, &b.SlotEnd, &b.Guests, &b.PricePerPerson, &b.TotalPrice,
		&b.ConfirmationCode, &b.Status, &b.PaymentIntentID, &b.CustomerName,
		&b.CustomerEmail, &b.CreatedAt, &b.UpdatedAt, &b.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &b, nil
}

// UpdateBookingStatus moves a booking to a new status, stamping confirmed_at
// on confirmation.
func (r *Repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	var confirmedAt *time.Time
	if status == booking.StatusConfirmed {
		now := time.Now().UTC()
		confirmedAt = &now
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET status = $1, updated_at = NOW(), confirmed_at = COALESCE($2, confirmed_at)
		WHERE id = $3
	`, status, confirmedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBookingPaymentIntent attaches the payment intent that confirmed a booking.
func (r *Repository) SetBookingPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bookings SET payment_intent_id = $1, updated_at = NOW() WHERE id = $2
	`, intentID, id)
	if err != nil {
		return fmt.Errorf("failed to set payment intent: %w", err)
	}
	return nil
}

// --- Capacity Operations ---

// ReserveSlotCapacity atomically takes guests seats on a slot, failing with
// ErrCapacityConflict when the slot cannot hold them. This is the only
// defense against two crews racing for the last places.
func (r *Repository) ReserveSlotCapacity(ctx context.Context, slotID, activityDate string, guests, capacity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO slot_capacity (slot_id, activity_date, booked)
		VALUES ($1, $2, 0)
		ON CONFLICT (slot_id, activity_date) DO NOTHING
	`, slotID, activityDate)
	if err != nil {
		return fmt.Errorf("failed to seed slot capacity: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE slot_capacity
		SET booked = booked + $1
		WHERE slot_id = $2 AND activity_date = $3 AND booked + $1 <= $4
	`, guests, slotID, activityDate, capacity)
	if err != nil {
		return fmt.Errorf("failed to reserve capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCapacityConflict
	}

	return tx.Commit(ctx)
}

// ReleaseSlotCapacity gives guests seats back on cancellation or expiry.
func (r *Repository) ReleaseSlotCapacity(ctx context.Context, slotID, activityDate string, guests int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE slot_capacity
		SET booked = GREATEST(booked - $1, 0)
		WHERE slot_id = $2 AND activity_date = $3
	`, guests, slotID, activityDate)
	if err != nil {
		return fmt.Errorf("failed to release capacity: %w", err)
	}
	return nil
}

// BookedGuests returns the reserved guest count for a slot on a date.
func (r *Repository) BookedGuests(ctx context.Context, slotID, activityDate string) (int, error) {
	var booked int
	err := r.pool.QueryRow(ctx, `
		SELECT booked FROM slot_capacity WHERE slot_id = $1 AND activity_date = $2
	`, slotID, activityDate).Scan(&booked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count booked guests: %w", err)
	}
	return booked, nil
}

// CrewBadges aggregates, per airline, how many travelers already hold a slot.
// Display only.
func (r *Repository) CrewBadges(ctx context.Context, slotID, activityDate string) ([]slots.Badge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT airline, SUM(guests)
		FROM bookings
		WHERE slot_id = $1 AND activity_date = $2 AND status IN ('pending', 'confirmed')
		GROUP BY airline
		ORDER BY airline
	`, slotID, activityDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query crew badges: %w", err)
	}
	defer rows.Close()

	var badges []slots.Badge
	for rows.Next() {
		var b slots.Badge
		if err := rows.Scan(&b.AirlineCode, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan crew badge: %w", err)
		}
		b.ID = slotID + "-" + b.AirlineCode
		badges = append(badges, b)
	}

	return badges, nil
}

// --- Payment Events ---

// RecordPaymentEvent stores a payment-intent delivery exactly once. A webhook
// redelivery returns ErrDuplicateEvent, which callers absorb rather than
// creating a second booking confirmation.
func (r *Repository) RecordPaymentEvent(ctx context.Context, intentID string, bookingID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO payment_events (payment_intent_id, booking_id)
		VALUES ($1, $2)
		ON CONFLICT (payment_intent_id) DO NOTHING
	`, intentID, bookingID)
	if err != nil {
		return fmt.Errorf("failed to record payment event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateEvent
	}
	return nil
}
