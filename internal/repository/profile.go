package repository

import (
	"context"

	"busbook/internal/domain"
)

// ProfileRepository defines the persistence operations for user profiles.
type ProfileRepository interface {
	// GetByID retrieves a profile by ID.
	GetByID(ctx context.Context, id string) (*domain.Profile, error)

	// GetByEmail retrieves a profile by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
}
