package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"busbook/internal/domain"
	"busbook/internal/pricing"
	"busbook/internal/repository"
)

// PromoService validates promo codes for travelers and manages them for admins.
type PromoService struct {
	promoRepo repository.PromoRepository
	now       func() time.Time
}

// NewPromoService creates a new PromoService.
func NewPromoService(promoRepo repository.PromoRepository) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
		now:       time.Now,
	}
}

// NormalizeCode trims and upper-cases a promo code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup returns the promo with the given code.
func (s *PromoService) Lookup(ctx context.Context, code string) (*domain.PromoCode, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrPromoNotFound
	}

	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return promo, nil
}

// Apply validates a code against a subtotal and returns the discount it grants.
func (s *PromoService) Apply(ctx context.Context, code string, subtotal int64) (*domain.AppliedPromo, error) {
	promo, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := pricing.ValidatePromo(promo, subtotal, s.now()); err != nil {
		return nil, err
	}

	return &domain.AppliedPromo{
		Code:     promo.Code,
		Discount: pricing.Discount(promo, subtotal),
	}, nil
}

// PromoInput holds the admin-editable fields of a promo code.
type PromoInput struct {
	Code             string
	DiscountType     domain.DiscountType
	DiscountValue    float64
	MinBookingAmount int64
	MaxDiscount      *int64
	ValidFrom        time.Time
	ValidUntil       time.Time
	UsageLimit       *int
	IsActive         bool
}

func (in PromoInput) validate() error {
	switch {
	case NormalizeCode(in.Code) == "":
		return fmt.Errorf("%w: code is required", ErrInvalidPromo)
	case in.DiscountType != domain.DiscountTypeFlat && in.DiscountType != domain.DiscountTypePercentage:
		return fmt.Errorf("%w: discount type must be flat or percentage", ErrInvalidPromo)
	case in.DiscountValue <= 0:
		return fmt.Errorf("%w: discount value must be positive", ErrInvalidPromo)
	case in.DiscountType == domain.DiscountTypePercentage && in.DiscountValue > 100:
		return fmt.Errorf("%w: percentage cannot exceed 100", ErrInvalidPromo)
	case in.MinBookingAmount < 0:
		return fmt.Errorf("%w: minimum booking amount cannot be negative", ErrInvalidPromo)
	case in.MaxDiscount != nil && *in.MaxDiscount <= 0:
		return fmt.Errorf("%w: max discount must be positive", ErrInvalidPromo)
	case in.UsageLimit != nil && *in.UsageLimit <= 0:
		return fmt.Errorf("%w: usage limit must be positive", ErrInvalidPromo)
	case in.ValidFrom.IsZero() || in.ValidUntil.IsZero():
		return fmt.Errorf("%w: validity window is required", ErrInvalidPromo)
	case in.ValidUntil.Before(in.ValidFrom):
		return fmt.Errorf("%w: valid_until is before valid_from", ErrInvalidPromo)
	}
	return nil
}

func (in PromoInput) apply(p *domain.PromoCode) {
	p.Code = NormalizeCode(in.Code)
	p.DiscountType = in.DiscountType
	p.DiscountValue = in.DiscountValue
	p.MinBookingAmount = in.MinBookingAmount
	p.MaxDiscount = in.MaxDiscount
	p.ValidFrom = in.ValidFrom
	p.ValidUntil = in.ValidUntil
	p.UsageLimit = in.UsageLimit
	p.IsActive = in.IsActive
}

// List returns every promo code.
func (s *PromoService) List(ctx context.Context) ([]*domain.PromoCode, error) {
	return s.promoRepo.GetAll(ctx)
}

// Create adds a new promo code.
func (s *PromoService) Create(ctx context.Context, in PromoInput) (*domain.PromoCode, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	promo := &domain.PromoCode{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
	}
	in.apply(promo)

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Update replaces the editable fields of a promo code. The usage counter is kept.
func (s *PromoService) Update(ctx context.Context, id string, in PromoInput) (*domain.PromoCode, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	promo, err := s.promoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(promo)

	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Delete removes a promo code.
func (s *PromoService) Delete(ctx context.Context, id string) error {
	return s.promoRepo.Delete(ctx, id)
}
