package repository

import (
	"context"

	"busbook/internal/domain"
)

// TripDetails is a trip joined with its coach.
type TripDetails struct {
	Trip  domain.Trip
	Coach domain.Coach
}

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves the most recent trips.
	GetAll(ctx context.Context) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// SearchByRoute returns scheduled trips between two cities,
	// matched case-insensitively, ordered by departure.
	SearchByRoute(ctx context.Context, from, to string) ([]TripDetails, error)
}
