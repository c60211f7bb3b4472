package service

import (
	"strconv"

	"busbook/internal/domain"
	"busbook/internal/format"
	"busbook/internal/repository"
)

// SeatFromRecord maps a stored seat row to the seat map view.
func SeatFromRecord(rec repository.SeatRecord, basePrice int64) domain.Seat {
	price := rec.Price
	if price == 0 {
		price = basePrice
	}

	return domain.Seat{
		ID:       rec.ID,
		Number:   strconv.Itoa(rec.Number),
		Row:      rec.Row,
		Col:      rec.Col,
		Deck:     domain.Deck(rec.Deck),
		IsSingle: rec.IsSingle,
		Price:    price,
		Status:   repository.SeatStatusOf(rec),
	}
}

// SeatsFromRecords maps every row with SeatFromRecord.
func SeatsFromRecords(recs []repository.SeatRecord, basePrice int64) []domain.Seat {
	seats := make([]domain.Seat, len(recs))
	for i, rec := range recs {
		seats[i] = SeatFromRecord(rec, basePrice)
	}
	return seats
}

// BusFromTrip builds the search result view of a trip.
func BusFromTrip(d repository.TripDetails, seats []domain.Seat, catalog LocationCatalog) domain.Bus {
	available := 0
	for _, s := range seats {
		if s.Status == domain.SeatStatusAvailable {
			available++
		}
	}

	amenities := d.Coach.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return domain.Bus{
		ID:             d.Coach.ID,
		Name:           d.Coach.Name,
		Number:         d.Coach.Number,
		CoachType:      d.Coach.CoachType,
		TotalSeats:     d.Coach.TotalSeats,
		AvailableSeats: available,
		BasePrice:      d.Trip.BasePrice,
		DepartureTime:  d.Trip.DepartureTime,
		ArrivalTime:    d.Trip.ArrivalTime,
		Duration:       format.Duration(d.Trip.ArrivalTime.Sub(d.Trip.DepartureTime)),
		Amenities:      amenities,
		Seats:          seats,
		TripID:         d.Trip.ID,
		PickupPoints:   catalog.Points(d.Trip.From),
		DropPoints:     catalog.Points(d.Trip.To),
	}
}
