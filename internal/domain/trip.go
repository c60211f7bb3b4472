package domain

import (
	"strings"
	"time"
)

// TripStatus represents the current status of a scheduled trip.
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusCancelled TripStatus = "cancelled"
)

// Trip is one scheduled departure of a coach on a route.
type Trip struct {
	ID            string
	BusID         string
	From          string
	To            string
	DepartureTime time.Time
	ArrivalTime   time.Time
	BasePrice     int64
	Status        TripStatus
	CreatedAt     time.Time
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
