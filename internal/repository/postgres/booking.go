package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
// Columns hold the queryable fields; details keeps the full receipt projection.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a confirmed booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, trip_id, user_id, seat_ids, route_from, route_to, journey_date,
		                      subtotal, tax, discount, promo_code, total_amount, payment_id, status, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	details, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to encode booking details: %w", err)
	}

	_, err = r.q.ExecContext(ctx, query,
		booking.ID,
		booking.Bus.TripID,
		nullString(booking.UserID),
		pq.Array(booking.SeatIDs()),
		booking.Route.From,
		booking.Route.To,
		booking.JourneyDate,
		booking.Subtotal,
		booking.Tax,
		booking.Discount,
		nullString(booking.PromoCode),
		booking.TotalAmount,
		booking.PaymentID,
		booking.Status,
		details,
		booking.BookingDate,
	)

	return mapUniqueViolation(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var details []byte
	err := r.q.QueryRowContext(ctx, `SELECT details FROM bookings WHERE id = $1`, id).Scan(&details)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return decodeBooking(details)
}

// GetAll retrieves the most recent bookings.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT details FROM bookings ORDER BY created_at DESC LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var details []byte
		if err := rows.Scan(&details); err != nil {
			return nil, err
		}
		b, err := decodeBooking(details)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func decodeBooking(details []byte) (*domain.Booking, error) {
	var b domain.Booking
	if err := json.Unmarshal(details, &b); err != nil {
		return nil, fmt.Errorf("failed to decode booking details: %w", err)
	}
	return &b, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
