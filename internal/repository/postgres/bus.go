package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// BusRepository is a PostgreSQL implementation of repository.BusRepository.
type BusRepository struct {
	q Querier
}

// NewBusRepository creates a new PostgreSQL bus repository.
func NewBusRepository(db *sql.DB) *BusRepository {
	return &BusRepository{q: db}
}

// Create adds a new coach.
func (r *BusRepository) Create(ctx context.Context, bus *domain.Coach) error {
	query := `
		INSERT INTO buses (id, name, number, coach_type, total_seats, amenities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		bus.ID,
		bus.Name,
		bus.Number,
		bus.CoachType,
		bus.TotalSeats,
		pq.Array(bus.Amenities),
		bus.CreatedAt,
	)
	return mapUniqueViolation(err)
}

// GetByID retrieves a coach by ID.
func (r *BusRepository) GetByID(ctx context.Context, id string) (*domain.Coach, error) {
	query := `
		SELECT id, name, number, coach_type, total_seats, amenities, created_at
		FROM buses WHERE id = $1
	`

	var bus domain.Coach
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&bus.ID,
		&bus.Name,
		&bus.Number,
		&bus.CoachType,
		&bus.TotalSeats,
		pq.Array(&bus.Amenities),
		&bus.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &bus, nil
}

// GetAll retrieves all coaches.
func (r *BusRepository) GetAll(ctx context.Context) ([]*domain.Coach, error) {
	query := `
		SELECT id, name, number, coach_type, total_seats, amenities, created_at
		FROM buses ORDER BY name
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []*domain.Coach
	for rows.Next() {
		var bus domain.Coach
		if err := rows.Scan(
			&bus.ID,
			&bus.Name,
			&bus.Number,
			&bus.CoachType,
			&bus.TotalSeats,
			pq.Array(&bus.Amenities),
			&bus.CreatedAt,
		); err != nil {
			return nil, err
		}
		buses = append(buses, &bus)
	}

	return buses, rows.Err()
}

// Update updates an existing coach.
func (r *BusRepository) Update(ctx context.Context, bus *domain.Coach) error {
	query := `
		UPDATE buses
		SET name = $1, number = $2, coach_type = $3, total_seats = $4, amenities = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		bus.Name,
		bus.Number,
		bus.CoachType,
		bus.TotalSeats,
		pq.Array(bus.Amenities),
		bus.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return expectAffected(result)
}

// Delete removes a coach.
func (r *BusRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return mapForeignKeyViolation(err)
	}

	return expectAffected(result)
}

// Ensure BusRepository implements repository.BusRepository.
var _ repository.BusRepository = (*BusRepository)(nil)
