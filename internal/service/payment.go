package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// ChargeRequest is what the payment provider needs to take money.
type ChargeRequest struct {
	Amount         int64
	Currency       string
	Method         domain.PaymentMethod
	Token          string
	IdempotencyKey string
	Description    string
}

// ChargeResult is the provider's answer to a charge.
type ChargeResult struct {
	Success     bool
	ProviderRef string
}

// PSP is the interface for a Payment Service Provider.
type PSP interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, providerRef string, amount int64) error
}

// MockPSP is a mock implementation of PSP for local development.
type MockPSP struct{}

// NewMockPSP creates a new mock PSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

// Charge simulates a payment charge. Always succeeds.
func (p *MockPSP) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{Success: true, ProviderRef: "mock_" + uuid.New().String()}, nil
}

// Refund simulates a refund. Always succeeds.
func (p *MockPSP) Refund(ctx context.Context, providerRef string, amount int64) error {
	return nil
}

// StripePSP charges through Stripe PaymentIntents.
type StripePSP struct {
	api *client.API
}

// NewStripePSP creates a Stripe-backed PSP.
func NewStripePSP(secretKey string) *StripePSP {
	return &StripePSP{api: client.New(secretKey, nil)}
}

// Charge confirms a PaymentIntent for the amount in paise. Token is a
// Stripe PaymentMethod ID collected by the client.
func (p *StripePSP) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount * 100),
		Currency:           stripe.String(req.Currency),
		PaymentMethod:      stripe.String(req.Token),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String(req.Description),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return &ChargeResult{Success: false}, nil
		}
		return nil, err
	}

	return &ChargeResult{
		Success:     pi.Status == stripe.PaymentIntentStatusSucceeded,
		ProviderRef: pi.ID,
	}, nil
}

// Refund reverses a PaymentIntent.
func (p *StripePSP) Refund(ctx context.Context, providerRef string, amount int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(providerRef),
		Amount:        stripe.Int64(amount * 100),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund:" + providerRef)

	_, err := p.api.Refunds.New(params)
	return err
}

// PaymentService handles payment operations.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	psp         PSP
	currency    string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, psp PSP, currency string) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		psp:         psp,
		currency:    currency,
	}
}

// ProcessPaymentRequest contains the parameters for processing a payment.
type ProcessPaymentRequest struct {
	BookingID string
	Amount    int64
	Method    domain.PaymentMethod
	Token     string
}

// ProcessPayment charges a booking with idempotency support. A declined
// or failed charge returns the FAILED payment together with ErrPaymentFailed.
func (s *PaymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*domain.Payment, error) {
	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: booking reference is required", ErrInvalidPaymentID)
	}

	if req.Amount < 0 {
		return nil, ErrInvalidPaymentAmount
	}

	if !validPaymentMethod(req.Method) {
		return nil, ErrInvalidPaymentMethod
	}

	// Generate idempotency key based on booking reference.
	idempotencyKey := fmt.Sprintf("payment:%s", req.BookingID)

	existingPayment, err := s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}

	if existingPayment != nil {
		if existingPayment.Status == domain.PaymentStatusSuccess {
			return existingPayment, nil
		}
		return existingPayment, ErrPaymentFailed
	}

	payment := &domain.Payment{
		ID:             uuid.New().String(),
		BookingID:      req.BookingID,
		Amount:         req.Amount,
		Method:         req.Method,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: idempotencyKey,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	// A fully discounted booking has nothing to charge.
	if req.Amount == 0 {
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusSuccess, ""); err != nil {
			return nil, err
		}
		payment.Status = domain.PaymentStatusSuccess
		return payment, nil
	}

	result, err := s.psp.Charge(ctx, ChargeRequest{
		Amount:         req.Amount,
		Currency:       s.currency,
		Method:         req.Method,
		Token:          req.Token,
		IdempotencyKey: idempotencyKey,
		Description:    "Bus booking " + req.BookingID,
	})
	if err != nil || !result.Success {
		if err != nil {
			log.Printf("[PAYMENT] charge error for booking %s: %v", req.BookingID, err)
		}
		_ = s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed, "")
		payment.Status = domain.PaymentStatusFailed
		return payment, ErrPaymentFailed
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusSuccess, result.ProviderRef); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusSuccess
	payment.ProviderRef = result.ProviderRef

	return payment, nil
}

// Refund reverses a successful payment.
func (s *PaymentService) Refund(ctx context.Context, payment *domain.Payment) error {
	if payment.Status != domain.PaymentStatusSuccess {
		return nil
	}

	if payment.Amount > 0 {
		if err := s.psp.Refund(ctx, payment.ProviderRef, payment.Amount); err != nil {
			return err
		}
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusRefunded, ""); err != nil {
		return err
	}
	payment.Status = domain.PaymentStatusRefunded
	return nil
}

func validPaymentMethod(m domain.PaymentMethod) bool {
	switch m {
	case domain.PaymentMethodCard, domain.PaymentMethodUPI,
		domain.PaymentMethodNetBanking, domain.PaymentMethodWallet:
		return true
	}
	return false
}
