// Package pricing computes the payable amount for a seat selection.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"busbook/internal/domain"
	"busbook/internal/format"
)

// TaxRate is the fixed GST share applied to the seat subtotal.
const TaxRate = 0.05

var (
	// ErrPromoInactive is returned when the promo has been switched off.
	ErrPromoInactive = errors.New("promo code is not active")

	// ErrPromoNotStarted is returned before the promo validity window opens.
	ErrPromoNotStarted = errors.New("promo code is not yet valid")

	// ErrPromoExpired is returned after the promo validity window closes.
	ErrPromoExpired = errors.New("promo code has expired")

	// ErrPromoUsageExceeded is returned when the usage limit has been reached.
	ErrPromoUsageExceeded = errors.New("promo code usage limit exceeded")

	// ErrPromoBelowMinimum is returned when the subtotal is under the promo minimum.
	ErrPromoBelowMinimum = errors.New("booking amount below promo minimum")
)

// Quote is the price breakdown of a selection.
type Quote struct {
	Subtotal   int64  `json:"subtotal"`
	Tax        int64  `json:"tax"`
	Discount   int64  `json:"discount"`
	Total      int64  `json:"total"`
	PromoCode  string `json:"promo_code,omitempty"`
	PromoError string `json:"promo_error,omitempty"`
}

// IsRejection reports whether err is one of the promo validation errors.
func IsRejection(err error) bool {
	return errors.Is(err, ErrPromoInactive) ||
		errors.Is(err, ErrPromoNotStarted) ||
		errors.Is(err, ErrPromoExpired) ||
		errors.Is(err, ErrPromoUsageExceeded) ||
		errors.Is(err, ErrPromoBelowMinimum)
}

// Subtotal sums the seat prices.
func Subtotal(seats []domain.Seat) int64 {
	var sum int64
	for _, s := range seats {
		sum += s.Price
	}
	return sum
}

// Tax returns the tax on subtotal rounded to the nearest rupee.
func Tax(subtotal int64) int64 {
	return int64(math.Round(float64(subtotal) * TaxRate))
}

// ValidatePromo checks the promo window, usage and minimum amount.
func ValidatePromo(promo *domain.PromoCode, subtotal int64, now time.Time) error {
	switch {
	case !promo.IsActive:
		return ErrPromoInactive
	case now.Before(promo.ValidFrom):
		return ErrPromoNotStarted
	case now.After(promo.ValidUntil):
		return ErrPromoExpired
	case promo.UsageLimit != nil && promo.UsedCount >= *promo.UsageLimit:
		return ErrPromoUsageExceeded
	case subtotal < promo.MinBookingAmount:
		return fmt.Errorf("%w: minimum is %s", ErrPromoBelowMinimum, format.Currency(promo.MinBookingAmount))
	}
	return nil
}

// Discount returns the discount the promo grants on subtotal.
// It does not validate the promo.
func Discount(promo *domain.PromoCode, subtotal int64) int64 {
	switch promo.DiscountType {
	case domain.DiscountTypeFlat:
		return int64(math.Round(promo.DiscountValue))
	case domain.DiscountTypePercentage:
		d := int64(math.Round(float64(subtotal) * promo.DiscountValue / 100))
		if promo.MaxDiscount != nil && d > *promo.MaxDiscount {
			d = *promo.MaxDiscount
		}
		return d
	}
	return 0
}

// Compute prices seats with an optional promo. A promo that fails
// validation is reported in PromoError and contributes no discount.
func Compute(seats []domain.Seat, promo *domain.PromoCode, now time.Time) Quote {
	q := Quote{Subtotal: Subtotal(seats)}
	q.Tax = Tax(q.Subtotal)

	if promo != nil {
		q.PromoCode = promo.Code
		if err := ValidatePromo(promo, q.Subtotal, now); err != nil {
			q.PromoError = err.Error()
		} else {
			q.Discount = Discount(promo, q.Subtotal)
		}
	}

	q.Total = q.Subtotal + q.Tax - q.Discount
	if q.Total < 0 {
		q.Total = 0
	}
	return q
}
