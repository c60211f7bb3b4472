package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, bus_id, from_city, to_city, departure_time, arrival_time, base_price, status, created_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.BusID,
		trip.From,
		trip.To,
		trip.DepartureTime,
		trip.ArrivalTime,
		trip.BasePrice,
		trip.Status,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetAll retrieves the most recent trips.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY departure_time DESC LIMIT 200`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET bus_id = $1, from_city = $2, to_city = $3, departure_time = $4, arrival_time = $5, base_price = $6, status = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.BusID,
		trip.From,
		trip.To,
		trip.DepartureTime,
		trip.ArrivalTime,
		trip.BasePrice,
		trip.Status,
		trip.ID,
	)
	if err != nil {
		return err
	}

	return expectAffected(result)
}

// SearchByRoute returns scheduled trips between two cities.
func (r *TripRepository) SearchByRoute(ctx context.Context, from, to string) ([]repository.TripDetails, error) {
	query := `
		SELECT t.id, t.bus_id, t.from_city, t.to_city, t.departure_time, t.arrival_time, t.base_price, t.status, t.created_at,
		       b.id, b.name, b.number, b.coach_type, b.total_seats, b.amenities, b.created_at
		FROM trips t
		JOIN buses b ON b.id = t.bus_id
		WHERE LOWER(t.from_city) = LOWER($1) AND LOWER(t.to_city) = LOWER($2) AND t.status = $3
		ORDER BY t.departure_time
	`

	rows, err := r.q.QueryContext(ctx, query, from, to, domain.TripStatusScheduled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []repository.TripDetails
	for rows.Next() {
		var d repository.TripDetails
		if err := rows.Scan(
			&d.Trip.ID,
			&d.Trip.BusID,
			&d.Trip.From,
			&d.Trip.To,
			&d.Trip.DepartureTime,
			&d.Trip.ArrivalTime,
			&d.Trip.BasePrice,
			&d.Trip.Status,
			&d.Trip.CreatedAt,
			&d.Coach.ID,
			&d.Coach.Name,
			&d.Coach.Number,
			&d.Coach.CoachType,
			&d.Coach.TotalSeats,
			pq.Array(&d.Coach.Amenities),
			&d.Coach.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, d)
	}

	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	err := row.Scan(
		&trip.ID,
		&trip.BusID,
		&trip.From,
		&trip.To,
		&trip.DepartureTime,
		&trip.ArrivalTime,
		&trip.BasePrice,
		&trip.Status,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
