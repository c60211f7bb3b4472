package domain

import "time"

// DiscountType represents how a promo discount is computed.
type DiscountType string

const (
	DiscountTypeFlat       DiscountType = "flat"
	DiscountTypePercentage DiscountType = "percentage"
)

// PromoCode is an admin-managed discount code.
type PromoCode struct {
	ID               string
	Code             string
	DiscountType     DiscountType
	DiscountValue    float64
	MinBookingAmount int64
	MaxDiscount      *int64 // nil means uncapped
	ValidFrom        time.Time
	ValidUntil       time.Time
	UsageLimit       *int // nil means unlimited
	UsedCount        int
	IsActive         bool
	CreatedAt        time.Time
}

// AppliedPromo is a promo attached to an in-progress booking.
type AppliedPromo struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}
