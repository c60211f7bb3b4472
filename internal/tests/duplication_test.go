package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"busbook/internal/domain"
	"busbook/internal/events"
	"busbook/internal/format"
	"busbook/internal/service"
)

// recordingRefresher is a SeatRefresher that remembers which trips it refreshed.
type recordingRefresher struct {
	mu    sync.Mutex
	trips []string
}

func (r *recordingRefresher) Refresh(ctx context.Context, tripID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips = append(r.trips, tripID)
	return nil
}

func (r *recordingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trips)
}

func templateTrip() *domain.Trip {
	return &domain.Trip{
		ID:            "trip-template",
		BusID:         "bus-small",
		From:          "Chennai",
		To:            "Bengaluru",
		DepartureTime: time.Date(2026, 2, 10, 22, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 2, 11, 6, 30, 0, 0, time.UTC),
		BasePrice:     850,
		Status:        domain.TripStatusScheduled,
	}
}

// ──────────────────────────────────────────────
// DATE RANGES
// ──────────────────────────────────────────────

func TestDuplicateDates(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }

	dates, err := service.DuplicateDates(day(15), day(17))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	for i, want := range []string{"2026-02-15", "2026-02-16", "2026-02-17"} {
		if got := format.ISODate(dates[i]); got != want {
			t.Errorf("date %d: expected %s, got %s", i, want, got)
		}
	}

	single, err := service.DuplicateDates(day(15), day(15))
	if err != nil || len(single) != 1 {
		t.Errorf("expected one date for a single-day range, got %d (%v)", len(single), err)
	}

	if _, err := service.DuplicateDates(day(17), day(15)); !errors.Is(err, service.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange for reversed range, got %v", err)
	}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := service.DuplicateDates(start, start.AddDate(0, 0, service.MaxDuplicateDays-1)); err != nil {
		t.Errorf("expected %d days allowed, got %v", service.MaxDuplicateDays, err)
	}
	if _, err := service.DuplicateDates(start, start.AddDate(0, 0, service.MaxDuplicateDays)); !errors.Is(err, service.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange past %d days, got %v", service.MaxDuplicateDays, err)
	}
}

func TestPlanDuplicates_KeepsClockTimes(t *testing.T) {
	t.Parallel()

	dates, _ := service.DuplicateDates(
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC),
	)
	planned := service.PlanDuplicates(*templateTrip(), dates)

	if len(planned) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(planned))
	}

	first := planned[0]
	if !first.DepartureTime.Equal(time.Date(2026, 2, 15, 22, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected departure %v", first.DepartureTime)
	}
	if !first.ArrivalTime.Equal(time.Date(2026, 2, 16, 6, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected arrival %v", first.ArrivalTime)
	}
	if first.ID != "" || first.Status != domain.TripStatusScheduled || first.BasePrice != 850 {
		t.Errorf("unexpected planned trip %+v", first)
	}
	if planned[2].From != "Chennai" || planned[2].To != "Bengaluru" {
		t.Errorf("expected route copied, got %s -> %s", planned[2].From, planned[2].To)
	}
}

// ──────────────────────────────────────────────
// SEAT LAYOUT
// ──────────────────────────────────────────────

func TestGenerateSeatLayout_Seater(t *testing.T) {
	t.Parallel()

	seats := service.GenerateSeatLayout("t1", domain.Coach{CoachType: "AC Seater", TotalSeats: 7}, 500)
	if len(seats) != 7 {
		t.Fatalf("expected 7 seats, got %d", len(seats))
	}

	for i, s := range seats {
		if s.Number != i+1 || s.Row != i/3 || s.Col != i%3 {
			t.Errorf("seat %d: unexpected position number=%d row=%d col=%d", i, s.Number, s.Row, s.Col)
		}
		if s.IsSingle != (s.Col == 0) {
			t.Errorf("seat %d: expected single only in column 0", s.Number)
		}
		if s.Deck != string(domain.DeckLower) || s.Price != 500 || s.TripID != "t1" {
			t.Errorf("seat %d: unexpected deck/price/trip %s/%d/%s", s.Number, s.Deck, s.Price, s.TripID)
		}
	}
}

func TestGenerateSeatLayout_SleeperSplitsDecks(t *testing.T) {
	t.Parallel()

	seats := service.GenerateSeatLayout("t1", domain.Coach{CoachType: "Volvo AC Sleeper", TotalSeats: 31}, 1400)

	lower, upper := 0, 0
	for _, s := range seats {
		switch domain.Deck(s.Deck) {
		case domain.DeckLower:
			lower++
		case domain.DeckUpper:
			upper++
		}
	}
	if lower != 16 || upper != 15 {
		t.Errorf("expected 16 lower and 15 upper, got %d and %d", lower, upper)
	}

	firstUpper := seats[16]
	if firstUpper.Deck != string(domain.DeckUpper) || firstUpper.Number != 17 || firstUpper.Row != 0 || firstUpper.Col != 0 {
		t.Errorf("expected upper deck to restart rows and continue numbering, got %+v", firstUpper)
	}
}

// ──────────────────────────────────────────────
// TRIP SERVICE
// ──────────────────────────────────────────────

func newTripService(t *testing.T, publisher events.Publisher, refresher service.SeatRefresher) (*service.TripService, sqlmock.Sqlmock, *MockTripRepository, *MockBusRepository) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	buses := NewMockBusRepository()
	buses.AddBus(&domain.Coach{ID: "bus-small", Name: "Mini", Number: "TN01X1", CoachType: "Non-AC Seater", TotalSeats: 4})
	trips := NewMockTripRepository(buses)
	trips.AddTrip(templateTrip())

	svc := service.NewTripService(db, trips, buses, refresher, publisher, service.NewNotificationService())
	return svc, mock, trips, buses
}

func expectTripWithSeats(mock sqlmock.Sqlmock, seats int) {
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO trips").WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < seats; i++ {
		mock.ExpectExec("INSERT INTO seats").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()
}

func TestTripService_DuplicateCreatesEveryDate(t *testing.T) {
	t.Parallel()

	publisher := NewRecordingPublisher()
	svc, mock, _, _ := newTripService(t, publisher, nil)
	for i := 0; i < 3; i++ {
		expectTripWithSeats(mock, 4)
	}

	result, err := svc.DuplicateTrip(context.Background(), "trip-template",
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	if len(result.Created) != 3 || len(result.Failed) != 0 {
		t.Fatalf("expected 3 created and 0 failed, got %d and %d", len(result.Created), len(result.Failed))
	}
	for _, trip := range result.Created {
		if trip.ID == "" || trip.ID == "trip-template" {
			t.Errorf("expected a fresh ID, got %q", trip.ID)
		}
	}
	if format.ISODate(result.Created[1].DepartureTime) != "2026-02-16" {
		t.Errorf("expected second copy on 2026-02-16, got %v", result.Created[1].DepartureTime)
	}

	payload, ok := publisher.Payload(events.TripsDuplicated)
	if !ok {
		t.Fatalf("expected %s event", events.TripsDuplicated)
	}
	ev := payload.(events.TripsDuplicatedEvent)
	if ev.TemplateID != "trip-template" || len(ev.Created) != 3 || ev.Failed != 0 {
		t.Errorf("unexpected event %+v", ev)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTripService_DuplicateReportsPartialFailure(t *testing.T) {
	t.Parallel()

	svc, mock, _, _ := newTripService(t, nil, nil)
	expectTripWithSeats(mock, 4)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO trips").WillReturnError(errConnectionReset)
	mock.ExpectRollback()

	expectTripWithSeats(mock, 4)

	result, err := svc.DuplicateTrip(context.Background(), "trip-template",
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	if len(result.Created) != 2 {
		t.Errorf("expected 2 created, got %d", len(result.Created))
	}
	if len(result.Failed) != 1 || result.Failed[0].Date != "2026-02-16" {
		t.Fatalf("expected 2026-02-16 to fail, got %+v", result.Failed)
	}
	if result.Failed[0].Error == "" {
		t.Error("expected failure reason")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTripService_DuplicateRejectsBadRange(t *testing.T) {
	t.Parallel()

	svc, mock, _, _ := newTripService(t, nil, nil)

	_, err := svc.DuplicateTrip(context.Background(), "trip-template",
		time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, service.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no database work expected: %v", err)
	}
}

func TestTripService_CreateTripValidation(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTripService(t, nil, nil)
	dep := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	valid := service.TripInput{
		BusID: "bus-small", From: "Chennai", To: "Pune",
		DepartureTime: dep, ArrivalTime: dep.Add(10 * time.Hour), BasePrice: 900,
	}

	tests := []struct {
		name   string
		mutate func(in *service.TripInput)
	}{
		{"no bus", func(in *service.TripInput) { in.BusID = "" }},
		{"same city", func(in *service.TripInput) { in.To = "chennai" }},
		{"arrival before departure", func(in *service.TripInput) { in.ArrivalTime = dep.Add(-time.Hour) }},
		{"free fare", func(in *service.TripInput) { in.BasePrice = 0 }},
	}

	for _, tt := range tests {
		in := valid
		tt.mutate(&in)
		if _, err := svc.CreateTrip(context.Background(), in); !errors.Is(err, service.ErrInvalidTrip) {
			t.Errorf("%s: expected ErrInvalidTrip, got %v", tt.name, err)
		}
	}
}

func TestTripService_CreateTripWritesSeats(t *testing.T) {
	t.Parallel()

	svc, mock, _, _ := newTripService(t, nil, nil)
	expectTripWithSeats(mock, 4)

	dep := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	trip, err := svc.CreateTrip(context.Background(), service.TripInput{
		BusID: "bus-small", From: " Chennai ", To: "Pune",
		DepartureTime: dep, ArrivalTime: dep.Add(10 * time.Hour), BasePrice: 900,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	if trip.From != "Chennai" || trip.Status != domain.TripStatusScheduled {
		t.Errorf("unexpected trip %+v", trip)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTripService_CancelIsIdempotent(t *testing.T) {
	t.Parallel()

	refresher := &recordingRefresher{}
	svc, _, trips, _ := newTripService(t, nil, refresher)
	ctx := context.Background()

	trip, err := svc.CancelTrip(ctx, "trip-template")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if trip.Status != domain.TripStatusCancelled {
		t.Errorf("expected cancelled, got %s", trip.Status)
	}

	if _, err := svc.CancelTrip(ctx, "trip-template"); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if refresher.count() != 1 {
		t.Errorf("expected one seat refresh, got %d", refresher.count())
	}

	// Cancelled trips drop out of search and cannot be edited.
	found, _ := trips.SearchByRoute(ctx, "Chennai", "Bengaluru")
	if len(found) != 0 {
		t.Errorf("expected cancelled trip hidden from search, got %d", len(found))
	}

	tpl := templateTrip()
	_, err = svc.UpdateTrip(ctx, "trip-template", service.TripInput{
		BusID: tpl.BusID, From: tpl.From, To: tpl.To,
		DepartureTime: tpl.DepartureTime, ArrivalTime: tpl.ArrivalTime, BasePrice: 999,
	})
	if !errors.Is(err, service.ErrTripCancelled) {
		t.Errorf("expected ErrTripCancelled, got %v", err)
	}
}

func TestTripService_UpdateCannotChangeCoach(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTripService(t, nil, nil)
	tpl := templateTrip()

	_, err := svc.UpdateTrip(context.Background(), "trip-template", service.TripInput{
		BusID: "other-bus", From: tpl.From, To: tpl.To,
		DepartureTime: tpl.DepartureTime, ArrivalTime: tpl.ArrivalTime, BasePrice: 999,
	})
	if !errors.Is(err, service.ErrInvalidTrip) {
		t.Errorf("expected ErrInvalidTrip, got %v", err)
	}
}
