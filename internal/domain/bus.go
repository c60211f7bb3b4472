package domain

import "time"

// SeatStatus represents the booking state of a seat.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusBlocked   SeatStatus = "blocked"
)

// Deck identifies the level of a seat in the coach.
type Deck string

const (
	DeckLower Deck = "lower"
	DeckUpper Deck = "upper"
)

// Seat is a single seat on a trip as shown on the seat map.
type Seat struct {
	ID       string     `json:"id"`
	Number   string     `json:"number"`
	Row      int        `json:"row"`
	Col      int        `json:"col"`
	Deck     Deck       `json:"deck"`
	IsSingle bool       `json:"is_single"`
	Price    int64      `json:"price"`
	Status   SeatStatus `json:"status"`
}

// Bookable reports whether the seat can be added to a selection.
func (s Seat) Bookable() bool {
	return s.Status == SeatStatusAvailable
}

// Location is a pickup or drop point.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Bus is the search-result view of one scheduled trip and its coach.
// Duration and AvailableSeats are derived when the view is built.
type Bus struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Number         string     `json:"number"`
	CoachType      string     `json:"coach_type"`
	TotalSeats     int        `json:"total_seats"`
	AvailableSeats int        `json:"available_seats"`
	BasePrice      int64      `json:"base_price"`
	DepartureTime  time.Time  `json:"departure_time"`
	ArrivalTime    time.Time  `json:"arrival_time"`
	Duration       string     `json:"duration"`
	Amenities      []string   `json:"amenities"`
	Seats          []Seat     `json:"seats"`
	TripID         string     `json:"trip_id"`
	PickupPoints   []Location `json:"pickup_points"`
	DropPoints     []Location `json:"drop_points"`
}

// FindPickup returns the pickup point with the given ID.
func (b *Bus) FindPickup(id string) (Location, bool) {
	return findLocation(b.PickupPoints, id)
}

// FindDrop returns the drop point with the given ID.
func (b *Bus) FindDrop(id string) (Location, bool) {
	return findLocation(b.DropPoints, id)
}

func findLocation(points []Location, id string) (Location, bool) {
	for _, p := range points {
		if p.ID == id {
			return p, true
		}
	}
	return Location{}, false
}

// Coach is a bus as managed by administrators.
type Coach struct {
	ID         string
	Name       string
	Number     string
	CoachType  string
	TotalSeats int
	Amenities  []string
	CreatedAt  time.Time
}

// IsSleeper reports whether the coach has a lower and an upper deck.
func (c Coach) IsSleeper() bool {
	return containsFold(c.CoachType, "sleeper")
}
