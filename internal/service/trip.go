package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"busbook/internal/domain"
	"busbook/internal/events"
	"busbook/internal/format"
	"busbook/internal/repository"
	"busbook/internal/repository/postgres"
)

// seatsPerRow is the coach layout: one single seat then a pair.
const seatsPerRow = 3

// TripService handles trip administration.
type TripService struct {
	db                  *sql.DB
	tripRepo            repository.TripRepository
	busRepo             repository.BusRepository
	seatRefresher       SeatRefresher
	publisher           events.Publisher
	notificationService *NotificationService
}

// NewTripService creates a new TripService.
func NewTripService(
	db *sql.DB,
	tripRepo repository.TripRepository,
	busRepo repository.BusRepository,
	seatRefresher SeatRefresher,
	publisher events.Publisher,
	notificationService *NotificationService,
) *TripService {
	return &TripService{
		db:                  db,
		tripRepo:            tripRepo,
		busRepo:             busRepo,
		seatRefresher:       seatRefresher,
		publisher:           publisher,
		notificationService: notificationService,
	}
}

// TripInput holds the admin-editable fields of a trip.
type TripInput struct {
	BusID         string
	From          string
	To            string
	DepartureTime time.Time
	ArrivalTime   time.Time
	BasePrice     int64
}

func (in TripInput) validate() error {
	switch {
	case in.BusID == "":
		return fmt.Errorf("%w: bus is required", ErrInvalidTrip)
	case strings.TrimSpace(in.From) == "" || strings.TrimSpace(in.To) == "":
		return fmt.Errorf("%w: origin and destination are required", ErrInvalidTrip)
	case strings.EqualFold(strings.TrimSpace(in.From), strings.TrimSpace(in.To)):
		return fmt.Errorf("%w: origin and destination must differ", ErrInvalidTrip)
	case in.DepartureTime.IsZero() || in.ArrivalTime.IsZero():
		return fmt.Errorf("%w: departure and arrival times are required", ErrInvalidTrip)
	case !in.ArrivalTime.After(in.DepartureTime):
		return fmt.Errorf("%w: arrival must be after departure", ErrInvalidTrip)
	case in.BasePrice <= 0:
		return fmt.Errorf("%w: base price must be positive", ErrInvalidTrip)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTrip
	}

	return s.tripRepo.GetByID(ctx, tripID)
}

// GetAllTrips retrieves the most recent trips.
func (s *TripService) GetAllTrips(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

// CreateTrip schedules a trip and generates its seat layout.
func (s *TripService) CreateTrip(ctx context.Context, in TripInput) (*domain.Trip, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	coach, err := s.busRepo.GetByID(ctx, in.BusID)
	if err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		BusID:         in.BusID,
		From:          strings.TrimSpace(in.From),
		To:            strings.TrimSpace(in.To),
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.ArrivalTime,
		BasePrice:     in.BasePrice,
		Status:        domain.TripStatusScheduled,
	}

	if err := s.createWithSeats(ctx, trip, coach); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripService) createWithSeats(ctx context.Context, trip *domain.Trip, coach *domain.Coach) (err error) {
	trip.ID = uuid.New().String()
	trip.CreatedAt = time.Now()

	// Use transaction so a trip never exists without its seats.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txSeatRepo := postgres.NewSeatRepositoryWithTx(tx)

	if err = txTripRepo.Create(ctx, trip); err != nil {
		return err
	}

	if err = txSeatRepo.CreateBatch(ctx, GenerateSeatLayout(trip.ID, *coach, trip.BasePrice)); err != nil {
		return err
	}

	return tx.Commit()
}

// GenerateSeatLayout lays out a coach's seats three to a row with the
// first column single. Sleeper coaches split seats across two decks.
func GenerateSeatLayout(tripID string, coach domain.Coach, price int64) []repository.SeatRecord {
	decks := []struct {
		deck  domain.Deck
		count int
	}{{domain.DeckLower, coach.TotalSeats}}

	if coach.IsSleeper() {
		lower := (coach.TotalSeats + 1) / 2
		decks = []struct {
			deck  domain.Deck
			count int
		}{{domain.DeckLower, lower}, {domain.DeckUpper, coach.TotalSeats - lower}}
	}

	seats := make([]repository.SeatRecord, 0, coach.TotalSeats)
	number := 1
	for _, d := range decks {
		for i := 0; i < d.count; i++ {
			col := i % seatsPerRow
			seats = append(seats, repository.SeatRecord{
				ID:       uuid.New().String(),
				TripID:   tripID,
				Number:   number,
				Row:      i / seatsPerRow,
				Col:      col,
				Deck:     string(d.deck),
				IsSingle: col == 0,
				Price:    price,
				Status:   string(domain.SeatStatusAvailable),
			})
			number++
		}
	}
	return seats
}

// UpdateTrip changes the route, times or fare of a scheduled trip.
// The seat layout is kept.
func (s *TripService) UpdateTrip(ctx context.Context, tripID string, in TripInput) (*domain.Trip, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status == domain.TripStatusCancelled {
		return nil, ErrTripCancelled
	}

	if in.BusID != trip.BusID {
		return nil, fmt.Errorf("%w: a trip cannot change coach", ErrInvalidTrip)
	}

	trip.From = strings.TrimSpace(in.From)
	trip.To = strings.TrimSpace(in.To)
	trip.DepartureTime = in.DepartureTime
	trip.ArrivalTime = in.ArrivalTime
	trip.BasePrice = in.BasePrice

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	s.refreshSeats(ctx, trip.ID)
	return trip, nil
}

// CancelTrip withdraws a trip from search.
func (s *TripService) CancelTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status == domain.TripStatusCancelled {
		return trip, nil
	}

	trip.Status = domain.TripStatusCancelled
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTripCancelled(ctx, trip)
	}
	s.refreshSeats(ctx, trip.ID)
	return trip, nil
}

func (s *TripService) refreshSeats(ctx context.Context, tripID string) {
	if s.seatRefresher == nil {
		return
	}
	if err := s.seatRefresher.Refresh(ctx, tripID); err != nil {
		log.Printf("[TRIPS] seat refresh for trip %s failed: %v", tripID, err)
	}
}

// DuplicateFailure records one date that could not be scheduled.
type DuplicateFailure struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// DuplicateResult reports the outcome of a duplication run.
type DuplicateResult struct {
	Created []*domain.Trip     `json:"created"`
	Failed  []DuplicateFailure `json:"failed"`
}

// DuplicateTrip copies a trip onto every date in [start, end]. Each copy
// is created independently; failures are reported per date and earlier
// copies are kept.
func (s *TripService) DuplicateTrip(ctx context.Context, tripID string, start, end time.Time) (*DuplicateResult, error) {
	dates, err := DuplicateDates(start, end)
	if err != nil {
		return nil, err
	}

	template, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	coach, err := s.busRepo.GetByID(ctx, template.BusID)
	if err != nil {
		return nil, err
	}

	result := &DuplicateResult{Created: []*domain.Trip{}, Failed: []DuplicateFailure{}}
	for i, planned := range PlanDuplicates(*template, dates) {
		trip := planned
		if err := s.createWithSeats(ctx, &trip, coach); err != nil {
			log.Printf("[TRIPS] duplicate of %s on %s failed: %v", tripID, format.ISODate(dates[i]), err)
			result.Failed = append(result.Failed, DuplicateFailure{
				Date:  format.ISODate(dates[i]),
				Error: err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, &trip)
	}

	if s.publisher != nil {
		created := make([]string, len(result.Created))
		for i, t := range result.Created {
			created[i] = t.ID
		}
		if err := s.publisher.Publish(ctx, events.TripsDuplicated, events.TripsDuplicatedEvent{
			TemplateID: tripID,
			Created:    created,
			Failed:     len(result.Failed),
		}); err != nil {
			log.Printf("[TRIPS] failed to publish %s: %v", events.TripsDuplicated, err)
		}
	}

	return result, nil
}
