package service

import (
	"fmt"
	"time"

	"busbook/internal/domain"
)

// MaxDuplicateDays bounds one duplication run.
const MaxDuplicateDays = 366

// DuplicateDates lists every calendar day from start to end inclusive.
func DuplicateDates(start, end time.Time) ([]time.Time, error) {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	first := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	last := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)

	if last.Before(first) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidDateRange)
	}

	var dates []time.Time
	for i := 0; ; i++ {
		day := time.Date(sy, sm, sd+i, 0, 0, 0, 0, time.UTC)
		if day.After(last) {
			break
		}
		if i >= MaxDuplicateDays {
			return nil, fmt.Errorf("%w: at most %d days", ErrInvalidDateRange, MaxDuplicateDays)
		}
		dates = append(dates, day)
	}
	return dates, nil
}

// PlanDuplicates copies a template trip onto each date. Departure keeps
// the template's clock time; arrival is the next day at the template's
// arrival clock time.
func PlanDuplicates(template domain.Trip, dates []time.Time) []domain.Trip {
	dep := template.DepartureTime
	arr := template.ArrivalTime
	loc := dep.Location()

	trips := make([]domain.Trip, 0, len(dates))
	for _, date := range dates {
		y, m, d := date.Date()
		trips = append(trips, domain.Trip{
			BusID:         template.BusID,
			From:          template.From,
			To:            template.To,
			DepartureTime: time.Date(y, m, d, dep.Hour(), dep.Minute(), dep.Second(), 0, loc),
			ArrivalTime:   time.Date(y, m, d+1, arr.Hour(), arr.Minute(), arr.Second(), 0, arr.Location()),
			BasePrice:     template.BasePrice,
			Status:        domain.TripStatusScheduled,
		})
	}
	return trips
}
