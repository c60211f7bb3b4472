package tests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"busbook/internal/domain"
	"busbook/internal/events"
	"busbook/internal/pricing"
	"busbook/internal/redis"
	"busbook/internal/repository"
	"busbook/internal/service"
)

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

// MockSessionStore is an in-memory SessionStoreInterface. Sessions are
// stored encoded so callers never share slices with the store.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte

	SaveCallCount int32
	SaveError     error
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string][]byte)}
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (m *MockSessionStore) Save(ctx context.Context, sess *domain.Session) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = data
	return nil
}

// Stored returns the last saved copy of a session.
func (m *MockSessionStore) Stored(id string) *domain.Session {
	sess, err := m.Get(context.Background(), id)
	if err != nil {
		return nil
	}
	return sess
}

// ──────────────────────────────────────────────
// MOCK SEAT CACHE
// ──────────────────────────────────────────────

// MockSeatCache is an in-memory SeatCacheInterface without expiry.
type MockSeatCache struct {
	mu    sync.RWMutex
	seats map[string][]domain.Seat

	GetCallCount        int32
	InvalidateCallCount int32
}

// NewMockSeatCache creates a new mock seat cache.
func NewMockSeatCache() *MockSeatCache {
	return &MockSeatCache{seats: make(map[string][]domain.Seat)}
}

func (m *MockSeatCache) GetSeats(ctx context.Context, tripID string) ([]domain.Seat, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	seats, ok := m.seats[tripID]
	if !ok {
		return nil, nil
	}
	return append([]domain.Seat(nil), seats...), nil
}

func (m *MockSeatCache) SetSeats(ctx context.Context, tripID string, seats []domain.Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seats[tripID] = append([]domain.Seat(nil), seats...)
	return nil
}

func (m *MockSeatCache) InvalidateSeats(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seats, tripID)
	return nil
}

// Cached reports whether a seat map is cached for the trip.
func (m *MockSeatCache) Cached(tripID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.seats[tripID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory LockStoreInterface with owner checks.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]string

	AcquireCallCount int32
	ReleaseCallCount int32
	AcquireError     error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]string)}
}

func lockKey(tripID, seatID string) string {
	return tripID + ":" + seatID
}

func (m *MockLockStore) AcquireSeatLock(ctx context.Context, tripID, seatID, owner string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[lockKey(tripID, seatID)]; held {
		return false, nil
	}
	m.locks[lockKey(tripID, seatID)] = owner
	return true, nil
}

func (m *MockLockStore) ReleaseSeatLock(ctx context.Context, tripID, seatID, owner string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[lockKey(tripID, seatID)] == owner {
		delete(m.locks, lockKey(tripID, seatID))
	}
	return nil
}

// Hold marks a seat as locked by another owner.
func (m *MockLockStore) Hold(tripID, seatID, owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[lockKey(tripID, seatID)] = owner
}

// HeldCount returns the number of locks currently held.
func (m *MockLockStore) HeldCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// ──────────────────────────────────────────────
// MOCK BUS REPOSITORY
// ──────────────────────────────────────────────

// MockBusRepository is a mock implementation of BusRepository.
type MockBusRepository struct {
	mu    sync.RWMutex
	buses map[string]*domain.Coach

	DeleteError error
}

// NewMockBusRepository creates a new mock bus repository.
func NewMockBusRepository() *MockBusRepository {
	return &MockBusRepository{buses: make(map[string]*domain.Coach)}
}

// AddBus adds a coach to the mock repository.
func (m *MockBusRepository) AddBus(bus *domain.Coach) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[bus.ID] = bus
}

func (m *MockBusRepository) Create(ctx context.Context, bus *domain.Coach) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.buses {
		if b.Number == bus.Number {
			return repository.ErrDuplicate
		}
	}
	copy := *bus
	m.buses[bus.ID] = &copy
	return nil
}

func (m *MockBusRepository) GetByID(ctx context.Context, id string) (*domain.Coach, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bus, ok := m.buses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *bus
	return &copy, nil
}

func (m *MockBusRepository) GetAll(ctx context.Context) ([]*domain.Coach, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var buses []*domain.Coach
	for _, b := range m.buses {
		copy := *b
		buses = append(buses, &copy)
	}
	return buses, nil
}

func (m *MockBusRepository) Update(ctx context.Context, bus *domain.Coach) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buses[bus.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *bus
	m.buses[bus.ID] = &copy
	return nil
}

func (m *MockBusRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.buses, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
// SearchByRoute joins trips with coaches from the given bus repository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
	buses *MockBusRepository

	SearchCallCount int32
	SearchError     error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository(buses *MockBusRepository) *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
		buses: buses,
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, t := range m.trips {
		copy := *t
		trips = append(trips, &copy)
	}
	return trips, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) SearchByRoute(ctx context.Context, from, to string) ([]repository.TripDetails, error) {
	atomic.AddInt32(&m.SearchCallCount, 1)
	if m.SearchError != nil {
		return nil, m.SearchError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []repository.TripDetails
	for _, t := range m.trips {
		if t.Status != domain.TripStatusScheduled ||
			!strings.EqualFold(t.From, from) || !strings.EqualFold(t.To, to) {
			continue
		}
		coach, err := m.buses.GetByID(ctx, t.BusID)
		if err != nil {
			continue
		}
		out = append(out, repository.TripDetails{Trip: *t, Coach: *coach})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Trip.DepartureTime.Before(out[j].Trip.DepartureTime)
	})
	return out, nil
}

// ──────────────────────────────────────────────
// MOCK SEAT REPOSITORY
// ──────────────────────────────────────────────

// MockSeatRepository is a mock implementation of SeatRepository.
type MockSeatRepository struct {
	mu    sync.RWMutex
	seats map[string][]repository.SeatRecord

	ListCallCount int32
}

// NewMockSeatRepository creates a new mock seat repository.
func NewMockSeatRepository() *MockSeatRepository {
	return &MockSeatRepository{seats: make(map[string][]repository.SeatRecord)}
}

// AddSeats adds seat rows to the mock repository.
func (m *MockSeatRepository) AddSeats(recs ...repository.SeatRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range recs {
		m.seats[r.TripID] = append(m.seats[r.TripID], r)
	}
}

// SetStatus changes the stored status of one seat.
func (m *MockSeatRepository) SetStatus(tripID, seatID string, status domain.SeatStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.seats[tripID] {
		if m.seats[tripID][i].ID == seatID {
			m.seats[tripID][i].Status = string(status)
		}
	}
}

func (m *MockSeatRepository) ListByTrip(ctx context.Context, tripID string) ([]repository.SeatRecord, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]repository.SeatRecord(nil), m.seats[tripID]...), nil
}

func (m *MockSeatRepository) CreateBatch(ctx context.Context, seats []repository.SeatRecord) error {
	m.AddSeats(seats...)
	return nil
}

func (m *MockSeatRepository) MarkBooked(ctx context.Context, tripID, bookingID string, seatIDs []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.seats[tripID] {
		s := &m.seats[tripID][i]
		if contains(seatIDs, s.ID) && repository.SeatStatusOf(*s) == domain.SeatStatusAvailable {
			s.Status = string(domain.SeatStatusBooked)
			s.BookingID = bookingID
			n++
		}
	}
	return n, nil
}

func (m *MockSeatRepository) MarkBookedFallback(ctx context.Context, tripID, bookingID string, seatIDs []string) error {
	_, err := m.MarkBooked(ctx, tripID, bookingID, seatIDs)
	return err
}

func (m *MockSeatRepository) ListByIDs(ctx context.Context, tripID string, seatIDs []string) ([]repository.SeatRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []repository.SeatRecord
	for _, s := range m.seats[tripID] {
		if contains(seatIDs, s.ID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK PROMO REPOSITORY
// ──────────────────────────────────────────────

// MockPromoRepository is a mock implementation of PromoRepository.
type MockPromoRepository struct {
	mu     sync.RWMutex
	promos map[string]*domain.PromoCode
}

// NewMockPromoRepository creates a new mock promo repository.
func NewMockPromoRepository() *MockPromoRepository {
	return &MockPromoRepository{promos: make(map[string]*domain.PromoCode)}
}

// AddPromo adds a promo code to the mock repository.
func (m *MockPromoRepository) AddPromo(promo *domain.PromoCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos[promo.ID] = promo
}

func (m *MockPromoRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.promos {
		if p.Code == promo.Code {
			return repository.ErrDuplicate
		}
	}
	copy := *promo
	m.promos[promo.ID] = &copy
	return nil
}

func (m *MockPromoRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.promos {
		if p.Code == code {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPromoRepository) GetByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.promos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockPromoRepository) GetAll(ctx context.Context) ([]*domain.PromoCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var promos []*domain.PromoCode
	for _, p := range m.promos {
		copy := *p
		promos = append(promos, &copy)
	}
	return promos, nil
}

func (m *MockPromoRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[promo.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *promo
	m.promos[promo.ID] = &copy
	return nil
}

func (m *MockPromoRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.promos, id)
	return nil
}

func (m *MockPromoRepository) IncrementUsage(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.promos {
		if p.Code == code {
			if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
				return pricing.ErrPromoUsageExceeded
			}
			p.UsedCount++
			return nil
		}
	}
	return repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{bookings: make(map[string]*domain.Booking)}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; ok {
		return repository.ErrDuplicate
	}
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		copy := *b
		bookings = append(bookings, &copy)
	}
	return bookings, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
	byKey    map[string]string

	CreateCallCount int32
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
		byKey:    make(map[string]string),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byKey[payment.IdempotencyKey]; exists {
		return repository.ErrDuplicate
	}
	copy := *payment
	m.payments[payment.ID] = &copy
	m.byKey[payment.IdempotencyKey] = payment.ID
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byKey[key]
	if !ok {
		return nil, nil
	}
	copy := *m.payments[id]
	return &copy, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, providerRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	if providerRef != "" {
		p.ProviderRef = providerRef
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PROFILE REPOSITORY
// ──────────────────────────────────────────────

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile
}

// NewMockProfileRepository creates a new mock profile repository.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]*domain.Profile)}
}

// AddProfile adds a profile to the mock repository.
func (m *MockProfileRepository) AddProfile(p *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK PSP
// ──────────────────────────────────────────────

// MockPSP is a PSP with failure injection.
type MockPSP struct {
	ShouldFail   bool
	ChargeError  error
	RefundError  error
	ChargeCount  int32
	RefundCount  int32
	LastCurrency atomic.Value
}

// NewMockPSP creates a new mock PSP that always succeeds.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

func (p *MockPSP) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	n := atomic.AddInt32(&p.ChargeCount, 1)
	p.LastCurrency.Store(req.Currency)
	if p.ChargeError != nil {
		return nil, p.ChargeError
	}
	if p.ShouldFail {
		return &service.ChargeResult{Success: false}, nil
	}
	return &service.ChargeResult{Success: true, ProviderRef: fmt.Sprintf("pi_test_%d", n)}, nil
}

func (p *MockPSP) Refund(ctx context.Context, providerRef string, amount int64) error {
	atomic.AddInt32(&p.RefundCount, 1)
	return p.RefundError
}

// ──────────────────────────────────────────────
// MOCK BOOKING CONFIRMER
// ──────────────────────────────────────────────

// MockConfirmer is a BookingConfirmer that records what it was asked to confirm.
type MockConfirmer struct {
	mu       sync.Mutex
	requests []service.ConfirmRequest

	ConfirmError error
}

// NewMockConfirmer creates a new mock confirmer.
func NewMockConfirmer() *MockConfirmer {
	return &MockConfirmer{}
}

func (m *MockConfirmer) Confirm(ctx context.Context, req service.ConfirmRequest) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.ConfirmError != nil {
		return nil, m.ConfirmError
	}
	b := *req.Booking
	b.PaymentID = "pay-test"
	return &b, nil
}

// Requests returns every confirm request received.
func (m *MockConfirmer) Requests() []service.ConfirmRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.ConfirmRequest(nil), m.requests...)
}

// ──────────────────────────────────────────────
// RECORDING PUBLISHER
// ──────────────────────────────────────────────

// RecordingPublisher is an events.Publisher that keeps every message.
type RecordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []any

	PublishError error
}

// NewRecordingPublisher creates a new recording publisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(ctx context.Context, subject string, data any) error {
	if p.PublishError != nil {
		return p.PublishError
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return nil
}

// Subjects returns the published subjects in order.
func (p *RecordingPublisher) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.subjects...)
}

// Payload returns the first payload published on subject.
func (p *RecordingPublisher) Payload(subject string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subjects {
		if s == subject {
			return p.payloads[i], true
		}
	}
	return nil, false
}

// errConnectionReset is a generic infrastructure failure for error injection.
var errConnectionReset = errors.New("connection reset by peer")

// Ensure mocks implement interfaces.
var (
	_ redis.SessionStoreInterface  = (*MockSessionStore)(nil)
	_ redis.SeatCacheInterface     = (*MockSeatCache)(nil)
	_ redis.LockStoreInterface     = (*MockLockStore)(nil)
	_ repository.BusRepository     = (*MockBusRepository)(nil)
	_ repository.TripRepository    = (*MockTripRepository)(nil)
	_ repository.SeatRepository    = (*MockSeatRepository)(nil)
	_ repository.PromoRepository   = (*MockPromoRepository)(nil)
	_ repository.BookingRepository = (*MockBookingRepository)(nil)
	_ repository.PaymentRepository = (*MockPaymentRepository)(nil)
	_ repository.ProfileRepository = (*MockProfileRepository)(nil)
	_ service.PSP                  = (*MockPSP)(nil)
	_ service.BookingConfirmer     = (*MockConfirmer)(nil)
	_ events.Publisher             = (*RecordingPublisher)(nil)
)
