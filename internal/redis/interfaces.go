package redis

import (
	"context"
	"time"

	"busbook/internal/domain"
)

// SessionStoreInterface defines the interface for booking session storage.
type SessionStoreInterface interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
}

// SeatCacheInterface defines the interface for seat map caching.
type SeatCacheInterface interface {
	GetSeats(ctx context.Context, tripID string) ([]domain.Seat, error)
	SetSeats(ctx context.Context, tripID string, seats []domain.Seat) error
	InvalidateSeats(ctx context.Context, tripID string) error
}

// LockStoreInterface defines the interface for distributed seat locking.
type LockStoreInterface interface {
	AcquireSeatLock(ctx context.Context, tripID, seatID, owner string, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, tripID, seatID, owner string) error
}

// Ensure concrete types implement interfaces.
var (
	_ SessionStoreInterface = (*SessionStore)(nil)
	_ SeatCacheInterface    = (*CacheStore)(nil)
	_ LockStoreInterface    = (*LockStore)(nil)
)
