package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"busbook/internal/domain"
	"busbook/internal/events"
	"busbook/internal/pricing"
	"busbook/internal/service"
)

var seatRowColumns = []string{"id", "trip_id", "seat_number", "row_no", "col_no", "deck", "is_single", "price", "status", "booking_id"}

type storeFixture struct {
	store     *service.BookingStore
	mock      sqlmock.Sqlmock
	locks     *MockLockStore
	payments  *MockPaymentRepository
	psp       *MockPSP
	refresher *recordingRefresher
	publisher *RecordingPublisher
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &storeFixture{
		mock:      mock,
		locks:     NewMockLockStore(),
		payments:  NewMockPaymentRepository(),
		psp:       NewMockPSP(),
		refresher: &recordingRefresher{},
		publisher: NewRecordingPublisher(),
	}
	paymentService := service.NewPaymentService(f.payments, f.psp, "inr")
	f.store = service.NewBookingStore(db, f.locks, paymentService, f.refresher, f.publisher,
		service.NewNotificationService(), 30*time.Second)
	return f
}

func pendingBooking(promo string, total int64) *domain.Booking {
	return &domain.Booking{
		ID:  "BKTEST01",
		Bus: domain.Bus{TripID: TripID, Name: "Orange Travels"},
		SelectedSeats: []domain.Seat{
			{ID: "seat-1", Number: "1", Price: 1000},
			{ID: "seat-2", Number: "2", Price: 1200},
		},
		Passenger:   ValidPassenger("Asha"),
		Subtotal:    2200,
		Tax:         110,
		PromoCode:   promo,
		TotalAmount: total,
		BookingDate: time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC),
		JourneyDate: JourneyDate,
		Route:       domain.Route{From: "Bengaluru", To: "Hyderabad"},
		Status:      domain.BookingStatusConfirmed,
	}
}

func bookedRows(owners ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows(seatRowColumns)
	for i, owner := range owners {
		id := []string{"seat-1", "seat-2"}[i]
		rows.AddRow(id, TripID, i+1, 0, i, "lower", i == 0, 0, "booked", owner)
	}
	return rows
}

func TestBookingStore_ConfirmCommitsEverything(t *testing.T) {
	t.Parallel()

	f := newStoreFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec("UPDATE seats").WillReturnResult(sqlmock.NewResult(0, 2))
	f.mock.ExpectQuery("SELECT (.+) FROM seats WHERE trip_id").WillReturnRows(bookedRows("BKTEST01", "BKTEST01"))
	f.mock.ExpectExec("UPDATE promo_codes SET used_count").WithArgs("SAVE10").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	booking, err := f.store.Confirm(context.Background(), service.ConfirmRequest{
		Booking: pendingBooking("SAVE10", 2090),
		Method:  domain.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if booking.PaymentID == "" {
		t.Error("expected payment reference on booking")
	}
	payment, _ := f.payments.GetByID(context.Background(), booking.PaymentID)
	if payment.Status != domain.PaymentStatusSuccess || payment.Amount != 2090 {
		t.Errorf("expected SUCCESS payment of 2090, got %s/%d", payment.Status, payment.Amount)
	}

	if f.locks.HeldCount() != 0 {
		t.Errorf("expected all seat locks released, %d held", f.locks.HeldCount())
	}
	if f.refresher.count() != 1 {
		t.Errorf("expected seat map refresh, got %d", f.refresher.count())
	}

	payload, ok := f.publisher.Payload(events.BookingConfirmed)
	if !ok {
		t.Fatalf("expected %s event", events.BookingConfirmed)
	}
	ev := payload.(events.BookingConfirmedEvent)
	if ev.BookingID != "BKTEST01" || ev.JourneyDate != "2026-03-01" || len(ev.SeatIDs) != 2 {
		t.Errorf("unexpected event %+v", ev)
	}

	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBookingStore_FallbackMarksRemainingSeats(t *testing.T) {
	t.Parallel()

	f := newStoreFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec("UPDATE seats").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec("SELECT mark_seats_booked").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery("SELECT (.+) FROM seats WHERE trip_id").WillReturnRows(bookedRows("BKTEST01", "BKTEST01"))
	f.mock.ExpectCommit()

	if _, err := f.store.Confirm(context.Background(), service.ConfirmRequest{
		Booking: pendingBooking("", 2310),
		Method:  domain.PaymentMethodUPI,
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBookingStore_SeatTakenRefundsPayment(t *testing.T) {
	t.Parallel()

	f := newStoreFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec("UPDATE seats").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec("SELECT mark_seats_booked").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery("SELECT (.+) FROM seats WHERE trip_id").WillReturnRows(bookedRows("BKTEST01", "BKOTHER"))
	f.mock.ExpectRollback()

	_, err := f.store.Confirm(context.Background(), service.ConfirmRequest{
		Booking: pendingBooking("", 2310),
		Method:  domain.PaymentMethodCard,
	})
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}

	if f.psp.ChargeCount != 1 || f.psp.RefundCount != 1 {
		t.Errorf("expected one charge refunded, got %d charges and %d refunds", f.psp.ChargeCount, f.psp.RefundCount)
	}
	payment, _ := f.payments.GetByIdempotencyKey(context.Background(), "payment:BKTEST01")
	if payment == nil || payment.Status != domain.PaymentStatusRefunded {
		t.Errorf("expected REFUNDED payment, got %+v", payment)
	}
	if _, ok := f.publisher.Payload(events.PaymentRefunded); !ok {
		t.Errorf("expected %s event", events.PaymentRefunded)
	}
	if _, ok := f.publisher.Payload(events.BookingConfirmed); ok {
		t.Error("no confirmation should be published")
	}
	if f.locks.HeldCount() != 0 {
		t.Errorf("expected locks released, %d held", f.locks.HeldCount())
	}

	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBookingStore_LockedSeatSkipsPayment(t *testing.T) {
	t.Parallel()

	f := newStoreFixture(t)
	f.locks.Hold(TripID, "seat-2", "BKELSEWHERE")

	_, err := f.store.Confirm(context.Background(), service.ConfirmRequest{
		Booking: pendingBooking("", 2310),
		Method:  domain.PaymentMethodCard,
	})
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}

	if f.psp.ChargeCount != 0 {
		t.Errorf("expected no charge, got %d", f.psp.ChargeCount)
	}
	// Only the other checkout's lock remains.
	if f.locks.HeldCount() != 1 {
		t.Errorf("expected 1 foreign lock held, got %d", f.locks.HeldCount())
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no database work expected: %v", err)
	}
}

func TestBookingStore_DeclinedPaymentWritesNothing(t *testing.T) {
	t.Parallel()

	f := newStoreFixture(t)
	f.psp.ShouldFail = true

	_, err := f.store.Confirm(context.Background(), service.ConfirmRequest{
		Booking: pendingBooking("", 2310),
		Method:  domain.PaymentMethodCard,
	})
	if !errors.Is(err, service.ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	if f.locks.HeldCount() != 0 {
		t.Errorf("expected locks released, %d held", f.locks.HeldCount())
	}
	if len(f.publisher.Subjects()) != 0 {
		t.Errorf("expected no events, got %v", f.publisher.Subjects())
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no database work expected: %v", err)
	}
}

func TestBookingStore_LockStoreDown(t *testing.T) {
	t.Parallel()

	f := newStoreFixture(t)
	f.locks.AcquireError = errConnectionReset

	_, err := f.store.Confirm(context.Background(), service.ConfirmRequest{
		Booking: pendingBooking("", 2310),
		Method:  domain.PaymentMethodCard,
	})
	if !errors.Is(err, errConnectionReset) {
		t.Errorf("expected lock store error, got %v", err)
	}
	if f.psp.ChargeCount != 0 {
		t.Errorf("expected no charge, got %d", f.psp.ChargeCount)
	}
}

func TestBookingStore_PromoLimitReachedRefundsPayment(t *testing.T) {
	t.Parallel()

	f := newStoreFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec("UPDATE seats").WillReturnResult(sqlmock.NewResult(0, 2))
	f.mock.ExpectQuery("SELECT (.+) FROM seats WHERE trip_id").WillReturnRows(bookedRows("BKTEST01", "BKTEST01"))
	f.mock.ExpectExec("UPDATE promo_codes SET used_count").WithArgs("SAVE10").WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectRollback()

	_, err := f.store.Confirm(context.Background(), service.ConfirmRequest{
		Booking: pendingBooking("SAVE10", 2090),
		Method:  domain.PaymentMethodCard,
	})
	if !errors.Is(err, pricing.ErrPromoUsageExceeded) {
		t.Fatalf("expected ErrPromoUsageExceeded, got %v", err)
	}

	if f.psp.ChargeCount != 1 || f.psp.RefundCount != 1 {
		t.Errorf("expected one charge refunded, got %d charges and %d refunds", f.psp.ChargeCount, f.psp.RefundCount)
	}
	if _, ok := f.publisher.Payload(events.BookingConfirmed); ok {
		t.Error("no confirmation should be published")
	}

	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
