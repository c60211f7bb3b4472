package repository

import (
	"context"

	"busbook/internal/domain"
)

// BusRepository defines the persistence operations for coaches.
type BusRepository interface {
	// Create adds a new coach.
	Create(ctx context.Context, bus *domain.Coach) error

	// GetByID retrieves a coach by ID.
	GetByID(ctx context.Context, id string) (*domain.Coach, error)

	// GetAll retrieves all coaches.
	GetAll(ctx context.Context) ([]*domain.Coach, error)

	// Update updates an existing coach.
	Update(ctx context.Context, bus *domain.Coach) error

	// Delete removes a coach.
	Delete(ctx context.Context, id string) error
}
