package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher publishes JSON-encoded events on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

// Bus publishes events and delivers them to subscribers.
type Bus interface {
	Publisher
	Subscribe(subject string, handler func(msg *Message)) error
	Close() error
}

// Message is a received event.
type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

// Subjects
const (
	BookingConfirmed = "booking.confirmed"
	PaymentRefunded  = "payment.refunded"
	SeatsChanged     = "seats.changed"
	TripsDuplicated  = "trips.duplicated"
)

// BookingConfirmedEvent is published once a booking is committed.
type BookingConfirmedEvent struct {
	BookingID   string    `json:"booking_id"`
	TripID      string    `json:"trip_id"`
	UserID      string    `json:"user_id,omitempty"`
	SeatIDs     []string  `json:"seat_ids"`
	TotalAmount int64     `json:"total_amount"`
	PromoCode   string    `json:"promo_code,omitempty"`
	JourneyDate string    `json:"journey_date"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// PaymentRefundedEvent is published when a charge is reversed because
// the booking could not be persisted.
type PaymentRefundedEvent struct {
	BookingID string `json:"booking_id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
}

// SeatsChangedEvent tells every instance to refresh a trip's seat map.
type SeatsChangedEvent struct {
	TripID string `json:"trip_id"`
}

// TripsDuplicatedEvent summarizes an admin duplication run.
type TripsDuplicatedEvent struct {
	TemplateID string   `json:"template_id"`
	Created    []string `json:"created"`
	Failed     int      `json:"failed"`
}

// NATSBus is a Bus backed by a NATS connection.
type NATSBus struct {
	conn *nats.Conn
}

// NewNATSBus connects to the NATS server at url.
func NewNATSBus(url string) (*NATSBus, error) {
	conn, err := nats.Connect(url, nats.Name("busbook"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSBus{conn: conn}, nil
}

// Publish implements Publisher.
func (n *NATSBus) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	return n.conn.Publish(subject, payload)
}

// Subscribe registers handler for messages on subject.
func (n *NATSBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

// Close drains pending messages and closes the connection.
func (n *NATSBus) Close() error {
	return n.conn.Drain()
}

// LocalBus delivers events in-process. It is used when no NATS server
// is configured so single-instance deployments behave the same.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(msg *Message)
}

// NewLocalBus creates an empty LocalBus.
func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[string][]func(msg *Message))}
}

// Publish implements Publisher. Handlers run synchronously.
func (b *LocalBus) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	log.Printf("[EVENT] subject=%s payload=%s", subject, payload)

	b.mu.RLock()
	handlers := append([]func(msg *Message){}, b.handlers[subject]...)
	b.mu.RUnlock()

	msg := &Message{Subject: subject, Data: payload, Timestamp: time.Now()}
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

// Subscribe registers handler for messages on subject.
func (b *LocalBus) Subscribe(subject string, handler func(msg *Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	return nil
}

// Close implements Bus.
func (b *LocalBus) Close() error {
	return nil
}

// Ensure implementations satisfy Bus.
var (
	_ Bus = (*NATSBus)(nil)
	_ Bus = (*LocalBus)(nil)
)
