package repository

import (
	"context"

	"busbook/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a confirmed booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves the most recent bookings.
	GetAll(ctx context.Context) ([]*domain.Booking, error)
}
