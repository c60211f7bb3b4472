package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"busbook/internal/domain"
	"busbook/internal/events"
	"busbook/internal/redis"
	"busbook/internal/repository"
)

// SeatService reads seat maps through a short-lived cache.
type SeatService struct {
	tripRepo repository.TripRepository
	seatRepo repository.SeatRepository
	cache    redis.SeatCacheInterface
}

// NewSeatService creates a new SeatService. cache may be nil.
func NewSeatService(
	tripRepo repository.TripRepository,
	seatRepo repository.SeatRepository,
	cache redis.SeatCacheInterface,
) *SeatService {
	return &SeatService{
		tripRepo: tripRepo,
		seatRepo: seatRepo,
		cache:    cache,
	}
}

// Seats returns the seat map of a trip. fresh bypasses the cache.
func (s *SeatService) Seats(ctx context.Context, tripID string, fresh bool) ([]domain.Seat, error) {
	if tripID == "" {
		return nil, ErrInvalidTrip
	}

	if !fresh && s.cache != nil {
		cached, err := s.cache.GetSeats(ctx, tripID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return s.load(ctx, trip)
}

// forTrip is Seats for a trip the caller already loaded.
func (s *SeatService) forTrip(ctx context.Context, trip *domain.Trip) ([]domain.Seat, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSeats(ctx, trip.ID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}
	return s.load(ctx, trip)
}

func (s *SeatService) load(ctx context.Context, trip *domain.Trip) ([]domain.Seat, error) {
	recs, err := s.seatRepo.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	seats := SeatsFromRecords(recs, trip.BasePrice)

	if s.cache != nil {
		if err := s.cache.SetSeats(ctx, trip.ID, seats); err != nil {
			log.Printf("[SEATS] failed to cache seats for trip %s: %v", trip.ID, err)
		}
	}

	return seats, nil
}

// Seat returns the current state of one seat, bypassing the cache.
func (s *SeatService) Seat(ctx context.Context, tripID, seatID string) (domain.Seat, error) {
	seats, err := s.Seats(ctx, tripID, true)
	if err != nil {
		return domain.Seat{}, err
	}

	for _, seat := range seats {
		if seat.ID == seatID {
			return seat, nil
		}
	}
	return domain.Seat{}, ErrSeatNotFound
}

// Invalidate drops the cached seat map of a trip.
func (s *SeatService) Invalidate(ctx context.Context, tripID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateSeats(ctx, tripID)
}

// SeatWatcher pushes seat map snapshots to subscribers on a fixed
// interval and whenever a refresh is signalled for their trip.
type SeatWatcher struct {
	seats     *SeatService
	interval  time.Duration
	publisher events.Publisher

	mu      sync.Mutex
	wakeups map[string]map[chan struct{}]struct{}
}

// NewSeatWatcher creates a SeatWatcher. publisher may be nil.
func NewSeatWatcher(seats *SeatService, interval time.Duration, publisher events.Publisher) *SeatWatcher {
	return &SeatWatcher{
		seats:     seats,
		interval:  interval,
		publisher: publisher,
		wakeups:   make(map[string]map[chan struct{}]struct{}),
	}
}

// Listen wakes local watchers when another instance reports a seat change.
func (w *SeatWatcher) Listen(bus events.Bus) error {
	return bus.Subscribe(events.SeatsChanged, func(msg *events.Message) {
		var ev events.SeatsChangedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Printf("[SEATS] dropping malformed %s event: %v", msg.Subject, err)
			return
		}
		w.wake(ev.TripID)
	})
}

// Watch emits a snapshot immediately, then on every tick and refresh
// signal, until ctx is done or emit fails.
func (w *SeatWatcher) Watch(ctx context.Context, tripID string, emit func([]domain.Seat) error) error {
	wake := w.subscribe(tripID)
	defer w.unsubscribe(tripID, wake)

	seats, err := w.seats.Seats(ctx, tripID, true)
	if err != nil {
		return err
	}
	if err := emit(seats); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		fresh := false
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-wake:
			fresh = true
		}

		seats, err := w.seats.Seats(ctx, tripID, fresh)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Printf("[SEATS] refresh failed for trip %s: %v", tripID, err)
			continue
		}
		if err := emit(seats); err != nil {
			return err
		}
	}
}

// Refresh invalidates the cached seat map and wakes every watcher of the trip.
func (w *SeatWatcher) Refresh(ctx context.Context, tripID string) error {
	if err := w.seats.Invalidate(ctx, tripID); err != nil {
		log.Printf("[SEATS] failed to invalidate trip %s: %v", tripID, err)
	}

	w.wake(tripID)

	if w.publisher != nil {
		return w.publisher.Publish(ctx, events.SeatsChanged, events.SeatsChangedEvent{TripID: tripID})
	}
	return nil
}

func (w *SeatWatcher) subscribe(tripID string) chan struct{} {
	ch := make(chan struct{}, 1)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.wakeups[tripID] == nil {
		w.wakeups[tripID] = make(map[chan struct{}]struct{})
	}
	w.wakeups[tripID][ch] = struct{}{}
	return ch
}

func (w *SeatWatcher) unsubscribe(tripID string, ch chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.wakeups[tripID], ch)
	if len(w.wakeups[tripID]) == 0 {
		delete(w.wakeups, tripID)
	}
}

func (w *SeatWatcher) wake(tripID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.wakeups[tripID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
