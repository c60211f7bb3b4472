package repository

import (
	"context"

	"busbook/internal/domain"
)

// SeatRecord is a seat row as stored. Number is numeric and Status
// may be empty for rows created before statuses were tracked.
type SeatRecord struct {
	ID        string
	TripID    string
	Number    int
	Row       int
	Col       int
	Deck      string
	IsSingle  bool
	Price     int64
	Status    string
	BookingID string
}

// SeatRepository defines the persistence operations for seats.
type SeatRepository interface {
	// ListByTrip returns every seat of a trip ordered by deck and number.
	ListByTrip(ctx context.Context, tripID string) ([]SeatRecord, error)

	// CreateBatch inserts the seat layout of a trip.
	CreateBatch(ctx context.Context, seats []SeatRecord) error

	// MarkBooked flags available seats as booked by bookingID and
	// returns how many rows changed.
	MarkBooked(ctx context.Context, tripID, bookingID string, seatIDs []string) (int64, error)

	// MarkBookedFallback runs the server-side procedure that flags seats as booked.
	MarkBookedFallback(ctx context.Context, tripID, bookingID string, seatIDs []string) error

	// ListByIDs returns the given seats of a trip.
	ListByIDs(ctx context.Context, tripID string, seatIDs []string) ([]SeatRecord, error)
}

// SeatStatusOf returns the status of a record, defaulting to available.
func SeatStatusOf(rec SeatRecord) domain.SeatStatus {
	if rec.Status == "" {
		return domain.SeatStatusAvailable
	}
	return domain.SeatStatus(rec.Status)
}
