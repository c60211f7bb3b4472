package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"busbook/internal/domain"
	"busbook/internal/format"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationPaymentRefunded  NotificationType = "PAYMENT_REFUNDED"
	NotificationTripCancelled    NotificationType = "TRIP_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	Recipient string // passenger email
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingConfirmed tells the lead passenger their seats are booked.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:      NotificationBookingConfirmed,
		Recipient: booking.Passenger.Email,
		Title:     "Booking Confirmed",
		Message: fmt.Sprintf("Booking %s confirmed: %s → %s on %s, %d seat(s), paid %s",
			booking.ID, booking.Route.From, booking.Route.To,
			format.Date(booking.JourneyDate), len(booking.SelectedSeats), format.Currency(booking.TotalAmount)),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"trip_id":    booking.Bus.TripID,
			"seats":      booking.SeatIDs(),
			"total":      booking.TotalAmount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentFailed tells the lead passenger the charge did not go through.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment, email string) error {
	notification := Notification{
		Type:      NotificationPaymentFailed,
		Recipient: email,
		Title:     "Payment Failed",
		Message:   fmt.Sprintf("Payment of %s failed. Please try again.", format.Currency(payment.Amount)),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"booking_id": payment.BookingID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentRefunded tells the lead passenger a charge was reversed.
func (s *NotificationService) NotifyPaymentRefunded(ctx context.Context, payment *domain.Payment, email string) error {
	notification := Notification{
		Type:      NotificationPaymentRefunded,
		Recipient: email,
		Title:     "Payment Refunded",
		Message: fmt.Sprintf("We could not hold your seats, so %s has been refunded.",
			format.Currency(payment.Amount)),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"booking_id": payment.BookingID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyTripCancelled records that an admin cancelled a departure.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip) error {
	notification := Notification{
		Type:  NotificationTripCancelled,
		Title: "Trip Cancelled",
		Message: fmt.Sprintf("The %s → %s departure at %s on %s was cancelled.",
			trip.From, trip.To, format.Time(trip.DepartureTime), format.Date(trip.DepartureTime)),
		Data: map[string]interface{}{
			"trip_id": trip.ID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (log-only implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.Recipient, notification.Title, notification.Message)

	return nil
}
