package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// SeatRepository is a PostgreSQL implementation of repository.SeatRepository.
type SeatRepository struct {
	q Querier
}

// NewSeatRepository creates a new PostgreSQL seat repository.
func NewSeatRepository(db *sql.DB) *SeatRepository {
	return &SeatRepository{q: db}
}

// NewSeatRepositoryWithTx creates a seat repository using a transaction.
func NewSeatRepositoryWithTx(tx *sql.Tx) *SeatRepository {
	return &SeatRepository{q: tx}
}

const seatColumns = `id, trip_id, seat_number, row_no, col_no, deck, is_single, price, status, booking_id`

// ListByTrip returns every seat of a trip.
func (r *SeatRepository) ListByTrip(ctx context.Context, tripID string) ([]repository.SeatRecord, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE trip_id = $1 ORDER BY deck, seat_number`

	return r.list(ctx, query, tripID)
}

// ListByIDs returns the given seats of a trip.
func (r *SeatRepository) ListByIDs(ctx context.Context, tripID string, seatIDs []string) ([]repository.SeatRecord, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE trip_id = $1 AND id = ANY($2) ORDER BY seat_number`

	return r.list(ctx, query, tripID, pq.Array(seatIDs))
}

func (r *SeatRepository) list(ctx context.Context, query string, args ...any) ([]repository.SeatRecord, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []repository.SeatRecord
	for rows.Next() {
		var s repository.SeatRecord
		var status, bookingID sql.NullString
		if err := rows.Scan(
			&s.ID,
			&s.TripID,
			&s.Number,
			&s.Row,
			&s.Col,
			&s.Deck,
			&s.IsSingle,
			&s.Price,
			&status,
			&bookingID,
		); err != nil {
			return nil, err
		}
		s.Status = status.String
		s.BookingID = bookingID.String
		seats = append(seats, s)
	}

	return seats, rows.Err()
}

// CreateBatch inserts the seat layout of a trip.
func (r *SeatRepository) CreateBatch(ctx context.Context, seats []repository.SeatRecord) error {
	query := `
		INSERT INTO seats (id, trip_id, seat_number, row_no, col_no, deck, is_single, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, s := range seats {
		if _, err := r.q.ExecContext(ctx, query,
			s.ID,
			s.TripID,
			s.Number,
			s.Row,
			s.Col,
			s.Deck,
			s.IsSingle,
			s.Price,
			nullString(s.Status),
		); err != nil {
			return err
		}
	}

	return nil
}

// MarkBooked flags available seats as booked.
func (r *SeatRepository) MarkBooked(ctx context.Context, tripID, bookingID string, seatIDs []string) (int64, error) {
	query := `
		UPDATE seats
		SET status = $1, booking_id = $2
		WHERE trip_id = $3 AND id = ANY($4) AND COALESCE(status, 'available') = 'available'
	`

	result, err := r.q.ExecContext(ctx, query, domain.SeatStatusBooked, bookingID, tripID, pq.Array(seatIDs))
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// MarkBookedFallback calls the mark_seats_booked procedure.
func (r *SeatRepository) MarkBookedFallback(ctx context.Context, tripID, bookingID string, seatIDs []string) error {
	_, err := r.q.ExecContext(ctx, `SELECT mark_seats_booked($1, $2, $3)`, tripID, bookingID, pq.Array(seatIDs))
	return err
}

// Ensure SeatRepository implements repository.SeatRepository.
var _ repository.SeatRepository = (*SeatRepository)(nil)
