package repository

import (
	"context"

	"busbook/internal/domain"
)

// PromoRepository defines the persistence operations for promo codes.
type PromoRepository interface {
	// Create persists a new promo code.
	Create(ctx context.Context, promo *domain.PromoCode) error

	// GetByCode retrieves a promo by its (upper-case) code.
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)

	// GetByID retrieves a promo by ID.
	GetByID(ctx context.Context, id string) (*domain.PromoCode, error)

	// GetAll retrieves all promo codes.
	GetAll(ctx context.Context) ([]*domain.PromoCode, error)

	// Update updates an existing promo code.
	Update(ctx context.Context, promo *domain.PromoCode) error

	// Delete removes a promo code.
	Delete(ctx context.Context, id string) error

	// IncrementUsage bumps the used counter of a code.
	IncrementUsage(ctx context.Context, code string) error
}
