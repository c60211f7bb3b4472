package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"busbook/internal/domain"
	"busbook/internal/pricing"
	"busbook/internal/repository"
	"busbook/internal/service"
)

func TestPromo_ApplyFlatAndCappedPercent(t *testing.T) {
	t.Parallel()

	repo := NewMockPromoRepository()
	now := time.Now()
	maxDiscount := int64(150)
	repo.AddPromo(&domain.PromoCode{
		ID: "p1", Code: "FLAT100", DiscountType: domain.DiscountTypeFlat, DiscountValue: 100,
		ValidFrom: now.Add(-time.Hour), ValidUntil: now.Add(time.Hour), IsActive: true,
	})
	repo.AddPromo(&domain.PromoCode{
		ID: "p2", Code: "HALF", DiscountType: domain.DiscountTypePercentage, DiscountValue: 50, MaxDiscount: &maxDiscount,
		ValidFrom: now.Add(-time.Hour), ValidUntil: now.Add(time.Hour), IsActive: true,
	})
	svc := service.NewPromoService(repo)
	ctx := context.Background()

	flat, err := svc.Apply(ctx, "flat100", 1000)
	if err != nil {
		t.Fatalf("apply flat: %v", err)
	}
	if flat.Discount != 100 || flat.Code != "FLAT100" {
		t.Errorf("expected FLAT100 worth 100, got %+v", flat)
	}

	half, err := svc.Apply(ctx, "HALF", 1000)
	if err != nil {
		t.Fatalf("apply percent: %v", err)
	}
	if half.Discount != 150 {
		t.Errorf("expected capped discount 150, got %d", half.Discount)
	}
}

func TestPromo_ApplyRejections(t *testing.T) {
	t.Parallel()

	now := time.Now()
	limit := 5

	tests := []struct {
		name  string
		promo domain.PromoCode
		want  error
	}{
		{"inactive", domain.PromoCode{IsActive: false, ValidFrom: now.Add(-time.Hour), ValidUntil: now.Add(time.Hour)}, pricing.ErrPromoInactive},
		{"not started", domain.PromoCode{IsActive: true, ValidFrom: now.Add(time.Hour), ValidUntil: now.Add(2 * time.Hour)}, pricing.ErrPromoNotStarted},
		{"expired", domain.PromoCode{IsActive: true, ValidFrom: now.Add(-2 * time.Hour), ValidUntil: now.Add(-time.Hour)}, pricing.ErrPromoExpired},
		{"used up", domain.PromoCode{IsActive: true, ValidFrom: now.Add(-time.Hour), ValidUntil: now.Add(time.Hour), UsageLimit: &limit, UsedCount: 5}, pricing.ErrPromoUsageExceeded},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewMockPromoRepository()
			p := tt.promo
			p.ID, p.Code, p.DiscountType, p.DiscountValue = "p", "CODE", domain.DiscountTypeFlat, 50
			repo.AddPromo(&p)

			_, err := service.NewPromoService(repo).Apply(context.Background(), "CODE", 1000)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPromo_UnknownCode(t *testing.T) {
	t.Parallel()

	svc := service.NewPromoService(NewMockPromoRepository())
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "NOPE", 1000); !errors.Is(err, service.ErrPromoNotFound) {
		t.Errorf("expected ErrPromoNotFound, got %v", err)
	}
	if _, err := svc.Apply(ctx, "   ", 1000); !errors.Is(err, service.ErrPromoNotFound) {
		t.Errorf("expected ErrPromoNotFound for blank code, got %v", err)
	}
}

func TestPromo_AdminCreateUpdateDelete(t *testing.T) {
	t.Parallel()

	repo := NewMockPromoRepository()
	svc := service.NewPromoService(repo)
	ctx := context.Background()
	now := time.Now()

	in := service.PromoInput{
		Code:          " monsoon ",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 15,
		ValidFrom:     now,
		ValidUntil:    now.Add(30 * 24 * time.Hour),
		IsActive:      true,
	}

	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "MONSOON" {
		t.Errorf("expected normalized code MONSOON, got %s", created.Code)
	}

	if _, err := svc.Create(ctx, in); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for repeated code, got %v", err)
	}

	_ = repo.IncrementUsage(ctx, "MONSOON")
	in.DiscountValue = 20
	updated, err := svc.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DiscountValue != 20 || updated.UsedCount != 1 {
		t.Errorf("expected value 20 with usage kept, got %v/%d", updated.DiscountValue, updated.UsedCount)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Lookup(ctx, "MONSOON"); !errors.Is(err, service.ErrPromoNotFound) {
		t.Errorf("expected deleted promo gone, got %v", err)
	}
}

func TestPromo_AdminValidation(t *testing.T) {
	t.Parallel()

	svc := service.NewPromoService(NewMockPromoRepository())
	now := time.Now()
	valid := service.PromoInput{
		Code: "OK", DiscountType: domain.DiscountTypeFlat, DiscountValue: 50,
		ValidFrom: now, ValidUntil: now.Add(time.Hour), IsActive: true,
	}

	tests := []struct {
		name   string
		mutate func(in *service.PromoInput)
	}{
		{"blank code", func(in *service.PromoInput) { in.Code = " " }},
		{"bad type", func(in *service.PromoInput) { in.DiscountType = "bogo" }},
		{"zero value", func(in *service.PromoInput) { in.DiscountValue = 0 }},
		{"over 100 percent", func(in *service.PromoInput) {
			in.DiscountType = domain.DiscountTypePercentage
			in.DiscountValue = 120
		}},
		{"window reversed", func(in *service.PromoInput) { in.ValidUntil = now.Add(-time.Hour) }},
		{"negative minimum", func(in *service.PromoInput) { in.MinBookingAmount = -1 }},
	}

	for _, tt := range tests {
		in := valid
		tt.mutate(&in)
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, service.ErrInvalidPromo) {
			t.Errorf("%s: expected ErrInvalidPromo, got %v", tt.name, err)
		}
	}
}
