package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"busbook/internal/domain"
	"busbook/internal/events"
	"busbook/internal/format"
	"busbook/internal/redis"
	"busbook/internal/repository"
	"busbook/internal/repository/postgres"
)

// BookingConfirmer charges and persists an assembled booking.
type BookingConfirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*domain.Booking, error)
}

// Ensure BookingStore implements BookingConfirmer.
var _ BookingConfirmer = (*BookingStore)(nil)

// SeatRefresher is notified after seats change hands.
type SeatRefresher interface {
	Refresh(ctx context.Context, tripID string) error
}

// ConfirmRequest contains a booking ready to be paid for.
type ConfirmRequest struct {
	Booking *domain.Booking
	Method  domain.PaymentMethod
	Token   string
}

// BookingStore runs the payment and persistence sequence of a checkout.
type BookingStore struct {
	db                  *sql.DB
	lockStore           redis.LockStoreInterface
	paymentService      *PaymentService
	seatRefresher       SeatRefresher
	publisher           events.Publisher
	notificationService *NotificationService
	lockTTL             time.Duration
}

// NewBookingStore creates a new BookingStore. seatRefresher and publisher may be nil.
func NewBookingStore(
	db *sql.DB,
	lockStore redis.LockStoreInterface,
	paymentService *PaymentService,
	seatRefresher SeatRefresher,
	publisher events.Publisher,
	notificationService *NotificationService,
	lockTTL time.Duration,
) *BookingStore {
	return &BookingStore{
		db:                  db,
		lockStore:           lockStore,
		paymentService:      paymentService,
		seatRefresher:       seatRefresher,
		publisher:           publisher,
		notificationService: notificationService,
		lockTTL:             lockTTL,
	}
}

// Confirm locks the seats, charges the traveler and writes the booking,
// its seats and the promo usage in one transaction. A charge is refunded
// if anything after it fails.
func (s *BookingStore) Confirm(ctx context.Context, req ConfirmRequest) (*domain.Booking, error) {
	booking := req.Booking
	tripID := booking.Bus.TripID
	seatIDs := booking.SeatIDs()

	release, err := s.lockSeats(ctx, tripID, booking.ID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer release()

	payment, err := s.paymentService.ProcessPayment(ctx, ProcessPaymentRequest{
		BookingID: booking.ID,
		Amount:    booking.TotalAmount,
		Method:    req.Method,
		Token:     req.Token,
	})
	if err != nil {
		if payment != nil && s.notificationService != nil {
			_ = s.notificationService.NotifyPaymentFailed(ctx, payment, booking.Passenger.Email)
		}
		return nil, err
	}

	booking.PaymentID = payment.ID
	booking.Status = domain.BookingStatusConfirmed

	if err := s.persist(ctx, booking); err != nil {
		log.Printf("[BOOKING] persisting %s failed after payment %s: %v", booking.ID, payment.ID, err)
		s.refund(ctx, booking, payment, err)
		return nil, err
	}

	log.Printf("[BOOKING] confirmed %s trip=%s seats=%v total=%d", booking.ID, tripID, seatIDs, booking.TotalAmount)
	s.afterCommit(ctx, booking)

	return booking, nil
}

func (s *BookingStore) lockSeats(ctx context.Context, tripID, owner string, seatIDs []string) (func(), error) {
	var held []string
	release := func() {
		for _, id := range held {
			if err := s.lockStore.ReleaseSeatLock(context.WithoutCancel(ctx), tripID, id, owner); err != nil {
				log.Printf("[BOOKING] failed to release lock on seat %s: %v", id, err)
			}
		}
	}

	for _, id := range seatIDs {
		ok, err := s.lockStore.AcquireSeatLock(ctx, tripID, id, owner, s.lockTTL)
		if err != nil {
			release()
			return nil, err
		}
		if !ok {
			release()
			return nil, fmt.Errorf("%w: seat %s is being booked by someone else", ErrSeatUnavailable, id)
		}
		held = append(held, id)
	}

	return release, nil
}

func (s *BookingStore) persist(ctx context.Context, booking *domain.Booking) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)
	txSeatRepo := postgres.NewSeatRepositoryWithTx(tx)
	txPromoRepo := postgres.NewPromoRepositoryWithTx(tx)

	tripID := booking.Bus.TripID
	seatIDs := booking.SeatIDs()

	if err = txBookingRepo.Create(ctx, booking); err != nil {
		return err
	}

	updated, err := txSeatRepo.MarkBooked(ctx, tripID, booking.ID, seatIDs)
	if err != nil {
		return err
	}

	if updated < int64(len(seatIDs)) {
		if err = txSeatRepo.MarkBookedFallback(ctx, tripID, booking.ID, seatIDs); err != nil {
			return err
		}
	}

	if err = verifySeatsBooked(ctx, txSeatRepo, tripID, booking.ID, seatIDs); err != nil {
		return err
	}

	if booking.PromoCode != "" {
		if err = txPromoRepo.IncrementUsage(ctx, booking.PromoCode); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// verifySeatsBooked checks every seat now belongs to the booking.
func verifySeatsBooked(ctx context.Context, seats repository.SeatRepository, tripID, bookingID string, seatIDs []string) error {
	recs, err := seats.ListByIDs(ctx, tripID, seatIDs)
	if err != nil {
		return err
	}

	if len(recs) != len(seatIDs) {
		return fmt.Errorf("%w: %d of %d seats exist on trip", ErrSeatUnavailable, len(recs), len(seatIDs))
	}

	for _, rec := range recs {
		if repository.SeatStatusOf(rec) != domain.SeatStatusBooked || rec.BookingID != bookingID {
			return fmt.Errorf("%w: seat %d was taken", ErrSeatUnavailable, rec.Number)
		}
	}
	return nil
}

func (s *BookingStore) refund(ctx context.Context, booking *domain.Booking, payment *domain.Payment, cause error) {
	ctx = context.WithoutCancel(ctx)

	if err := s.paymentService.Refund(ctx, payment); err != nil {
		log.Printf("[BOOKING] REFUND FAILED for payment %s of booking %s: %v", payment.ID, booking.ID, err)
		return
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.PaymentRefunded, events.PaymentRefundedEvent{
			BookingID: booking.ID,
			PaymentID: payment.ID,
			Amount:    payment.Amount,
			Reason:    cause.Error(),
		})
	}
	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentRefunded(ctx, payment, booking.Passenger.Email)
	}
}

func (s *BookingStore) afterCommit(ctx context.Context, booking *domain.Booking) {
	ctx = context.WithoutCancel(ctx)
	tripID := booking.Bus.TripID

	if s.seatRefresher != nil {
		if err := s.seatRefresher.Refresh(ctx, tripID); err != nil {
			log.Printf("[BOOKING] seat refresh for trip %s failed: %v", tripID, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.BookingConfirmed, events.BookingConfirmedEvent{
			BookingID:   booking.ID,
			TripID:      tripID,
			UserID:      booking.UserID,
			SeatIDs:     booking.SeatIDs(),
			TotalAmount: booking.TotalAmount,
			PromoCode:   booking.PromoCode,
			JourneyDate: format.ISODate(booking.JourneyDate),
			ConfirmedAt: booking.BookingDate,
		}); err != nil {
			log.Printf("[BOOKING] failed to publish %s: %v", events.BookingConfirmed, err)
		}
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingConfirmed(ctx, booking)
	}
}
