package tests

import (
	"context"
	"errors"
	"testing"

	"busbook/internal/domain"
	"busbook/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT IDEMPOTENCY AND FAILURES
// ──────────────────────────────────────────────

func TestPayment_ChargesOncePerBooking(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	psp := NewMockPSP()
	svc := service.NewPaymentService(repo, psp, "inr")
	ctx := context.Background()

	req := service.ProcessPaymentRequest{BookingID: "BK1", Amount: 2310, Method: domain.PaymentMethodCard}

	first, err := svc.ProcessPayment(ctx, req)
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	second, err := svc.ProcessPayment(ctx, req)
	if err != nil {
		t.Fatalf("retried payment: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same payment on retry, got %s and %s", first.ID, second.ID)
	}
	if psp.ChargeCount != 1 {
		t.Errorf("expected 1 charge, got %d", psp.ChargeCount)
	}
	if first.Status != domain.PaymentStatusSuccess || first.ProviderRef == "" {
		t.Errorf("expected successful payment with provider ref, got %+v", first)
	}
	if first.IdempotencyKey != "payment:BK1" {
		t.Errorf("unexpected idempotency key %s", first.IdempotencyKey)
	}
	if got := psp.LastCurrency.Load(); got != "inr" {
		t.Errorf("expected currency inr, got %v", got)
	}
}

func TestPayment_DeclineMarksFailed(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	psp := NewMockPSP()
	psp.ShouldFail = true
	svc := service.NewPaymentService(repo, psp, "inr")
	ctx := context.Background()

	payment, err := svc.ProcessPayment(ctx, service.ProcessPaymentRequest{
		BookingID: "BK2", Amount: 500, Method: domain.PaymentMethodUPI,
	})
	if !errors.Is(err, service.ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	if payment == nil || payment.Status != domain.PaymentStatusFailed {
		t.Fatal("expected FAILED payment returned with the error")
	}

	stored, _ := repo.GetByID(ctx, payment.ID)
	if stored.Status != domain.PaymentStatusFailed {
		t.Errorf("expected stored status FAILED, got %s", stored.Status)
	}

	// A failed booking reference cannot be charged again.
	psp.ShouldFail = false
	_, err = svc.ProcessPayment(ctx, service.ProcessPaymentRequest{
		BookingID: "BK2", Amount: 500, Method: domain.PaymentMethodUPI,
	})
	if !errors.Is(err, service.ErrPaymentFailed) {
		t.Errorf("expected ErrPaymentFailed on retry, got %v", err)
	}
	if psp.ChargeCount != 1 {
		t.Errorf("expected no second charge, got %d", psp.ChargeCount)
	}
}

func TestPayment_ProviderErrorMarksFailed(t *testing.T) {
	t.Parallel()

	psp := NewMockPSP()
	psp.ChargeError = errConnectionReset
	svc := service.NewPaymentService(NewMockPaymentRepository(), psp, "inr")

	payment, err := svc.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "BK3", Amount: 100, Method: domain.PaymentMethodCard,
	})
	if !errors.Is(err, service.ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	if payment.Status != domain.PaymentStatusFailed {
		t.Errorf("expected FAILED, got %s", payment.Status)
	}
}

func TestPayment_ZeroAmountSkipsProvider(t *testing.T) {
	t.Parallel()

	psp := NewMockPSP()
	svc := service.NewPaymentService(NewMockPaymentRepository(), psp, "inr")

	payment, err := svc.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "BK4", Amount: 0, Method: domain.PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != domain.PaymentStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", payment.Status)
	}
	if psp.ChargeCount != 0 {
		t.Errorf("expected no charge, got %d", psp.ChargeCount)
	}
}

func TestPayment_Validation(t *testing.T) {
	t.Parallel()

	svc := service.NewPaymentService(NewMockPaymentRepository(), NewMockPSP(), "inr")
	ctx := context.Background()

	tests := []struct {
		name string
		req  service.ProcessPaymentRequest
		want error
	}{
		{"missing booking", service.ProcessPaymentRequest{Amount: 1, Method: domain.PaymentMethodCard}, service.ErrInvalidPaymentID},
		{"negative amount", service.ProcessPaymentRequest{BookingID: "BK", Amount: -1, Method: domain.PaymentMethodCard}, service.ErrInvalidPaymentAmount},
		{"unknown method", service.ProcessPaymentRequest{BookingID: "BK", Amount: 1, Method: "CASH"}, service.ErrInvalidPaymentMethod},
	}

	for _, tt := range tests {
		if _, err := svc.ProcessPayment(ctx, tt.req); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestPayment_Refund(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	psp := NewMockPSP()
	svc := service.NewPaymentService(repo, psp, "inr")
	ctx := context.Background()

	payment, err := svc.ProcessPayment(ctx, service.ProcessPaymentRequest{
		BookingID: "BK5", Amount: 900, Method: domain.PaymentMethodNetBanking,
	})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}

	if err := svc.Refund(ctx, payment); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if payment.Status != domain.PaymentStatusRefunded {
		t.Errorf("expected REFUNDED, got %s", payment.Status)
	}
	if psp.RefundCount != 1 {
		t.Errorf("expected 1 refund, got %d", psp.RefundCount)
	}

	// Refunding twice is a no-op.
	if err := svc.Refund(ctx, payment); err != nil {
		t.Fatalf("second refund: %v", err)
	}
	if psp.RefundCount != 1 {
		t.Errorf("expected still 1 refund, got %d", psp.RefundCount)
	}
}
