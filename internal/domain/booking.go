package domain

import "time"

// SearchParams is the route and date a traveler searched for.
type SearchParams struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Date time.Time `json:"date"`
}

// Passenger holds traveler details for one seat.
type Passenger struct {
	Name   string `json:"name" validate:"required,min=2,max=80"`
	Age    int    `json:"age" validate:"required,min=1,max=120"`
	Gender string `json:"gender" validate:"required,oneof=male female other"`
	Mobile string `json:"mobile" validate:"required,numeric,len=10"`
	Email  string `json:"email" validate:"required,email"`
}

// Route is the origin and destination of a booking.
type Route struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BookingStatus represents the status of a persisted booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the receipt projection assembled at the end of the flow.
// The persisted row is the system of record.
type Booking struct {
	ID            string        `json:"id"`
	Bus           Bus           `json:"bus"`
	SelectedSeats []Seat        `json:"selected_seats"`
	Passenger     Passenger     `json:"passenger"`
	Passengers    []Passenger   `json:"passengers,omitempty"`
	Subtotal      int64         `json:"subtotal"`
	Tax           int64         `json:"tax"`
	Discount      int64         `json:"discount"`
	PromoCode     string        `json:"promo_code,omitempty"`
	TotalAmount   int64         `json:"total_amount"`
	BookingDate   time.Time     `json:"booking_date"`
	JourneyDate   time.Time     `json:"journey_date"`
	Route         Route         `json:"route"`
	PickupPoint   Location      `json:"pickup_point"`
	DropPoint     Location      `json:"drop_point"`
	PaymentID     string        `json:"payment_id"`
	UserID        string        `json:"user_id,omitempty"`
	Status        BookingStatus `json:"status"`
}

// SeatIDs returns the IDs of the booked seats in selection order.
func (b *Booking) SeatIDs() []string {
	ids := make([]string, len(b.SelectedSeats))
	for i, s := range b.SelectedSeats {
		ids[i] = s.ID
	}
	return ids
}

// AllPassengers returns one passenger per seat.
func (b *Booking) AllPassengers() []Passenger {
	if len(b.Passengers) > 0 {
		return b.Passengers
	}
	return []Passenger{b.Passenger}
}
