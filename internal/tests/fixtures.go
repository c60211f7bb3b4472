package tests

import (
	"fmt"
	"time"

	"busbook/internal/domain"
	"busbook/internal/repository"
	"busbook/internal/service"
)

// TripID is the scheduled Bengaluru to Hyderabad trip seeded by NewFlowFixture.
const TripID = "trip-blr-hyd"

// JourneyDate is the departure date of TripID.
var JourneyDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// FlowFixture bundles a booking flow over in-memory stores.
type FlowFixture struct {
	Sessions  *MockSessionStore
	Buses     *MockBusRepository
	Trips     *MockTripRepository
	Seats     *MockSeatRepository
	Promos    *MockPromoRepository
	Profiles  *MockProfileRepository
	Cache     *MockSeatCache
	Confirmer *MockConfirmer

	SeatService  *service.SeatService
	PromoService *service.PromoService
	Flow         *service.BookingFlowService
}

// NewFlowFixture seeds one coach with ten seats on TripID:
// seat-1 at 1000, seat-2 at 1200, seat-3..seat-9 at the 1000 base fare
// and seat-10 already booked. A second departure runs the next day.
func NewFlowFixture() *FlowFixture {
	f := &FlowFixture{
		Sessions:  NewMockSessionStore(),
		Buses:     NewMockBusRepository(),
		Seats:     NewMockSeatRepository(),
		Promos:    NewMockPromoRepository(),
		Profiles:  NewMockProfileRepository(),
		Cache:     NewMockSeatCache(),
		Confirmer: NewMockConfirmer(),
	}
	f.Trips = NewMockTripRepository(f.Buses)

	f.Buses.AddBus(&domain.Coach{
		ID:         "bus-1",
		Name:       "Orange Travels",
		Number:     "KA01AB1234",
		CoachType:  "AC Seater",
		TotalSeats: 10,
		Amenities:  []string{"WiFi", "Water"},
	})

	f.Trips.AddTrip(&domain.Trip{
		ID:            TripID,
		BusID:         "bus-1",
		From:          "Bengaluru",
		To:            "Hyderabad",
		DepartureTime: time.Date(2026, 3, 1, 21, 30, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		BasePrice:     1000,
		Status:        domain.TripStatusScheduled,
	})
	f.Trips.AddTrip(&domain.Trip{
		ID:            "trip-next-day",
		BusID:         "bus-1",
		From:          "Bengaluru",
		To:            "Hyderabad",
		DepartureTime: time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC),
		BasePrice:     1000,
		Status:        domain.TripStatusScheduled,
	})

	for i := 1; i <= 10; i++ {
		rec := repository.SeatRecord{
			ID:       fmt.Sprintf("seat-%d", i),
			TripID:   TripID,
			Number:   i,
			Row:      (i - 1) / 3,
			Col:      (i - 1) % 3,
			Deck:     string(domain.DeckLower),
			IsSingle: (i-1)%3 == 0,
		}
		switch i {
		case 1:
			rec.Price = 1000
		case 2:
			rec.Price = 1200
		case 10:
			rec.Status = string(domain.SeatStatusBooked)
			rec.BookingID = "BKEARLIER"
		}
		f.Seats.AddSeats(rec)
	}

	f.SeatService = service.NewSeatService(f.Trips, f.Seats, f.Cache)
	f.PromoService = service.NewPromoService(f.Promos)
	f.Flow = service.NewBookingFlowService(
		f.Sessions,
		f.Trips,
		f.Profiles,
		f.SeatService,
		f.PromoService,
		f.Confirmer,
		service.DefaultLocations,
	)
	return f
}

// AddPercentPromo adds an active percentage promo valid around now.
func (f *FlowFixture) AddPercentPromo(code string, percent float64, minAmount int64) *domain.PromoCode {
	now := time.Now()
	promo := &domain.PromoCode{
		ID:               "promo-" + code,
		Code:             code,
		DiscountType:     domain.DiscountTypePercentage,
		DiscountValue:    percent,
		MinBookingAmount: minAmount,
		ValidFrom:        now.Add(-time.Hour),
		ValidUntil:       now.Add(24 * time.Hour),
		IsActive:         true,
	}
	f.Promos.AddPromo(promo)
	return promo
}

// ValidPassenger returns valid passenger details.
func ValidPassenger(name string) domain.Passenger {
	return domain.Passenger{
		Name:   name,
		Age:    30,
		Gender: "female",
		Mobile: "9876543210",
		Email:  "traveler@example.com",
	}
}
