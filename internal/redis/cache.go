package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"busbook/internal/domain"
)

// CacheStore handles seat map caching in Redis.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// SeatCacheTTL matches the seat map refresh interval so a polling client
// never sees a snapshot older than one tick.
const SeatCacheTTL = 5 * time.Second

const seatCachePrefix = "seats:"

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client, ttl: SeatCacheTTL}
}

// GetSeats retrieves the seat map of a trip from cache.
// Returns nil on a cache miss.
func (s *CacheStore) GetSeats(ctx context.Context, tripID string) ([]domain.Seat, error) {
	data, err := s.client.Get(ctx, seatCachePrefix+tripID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var seats []domain.Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// SetSeats stores the seat map of a trip in cache.
func (s *CacheStore) SetSeats(ctx context.Context, tripID string, seats []domain.Seat) error {
	data, err := json.Marshal(seats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, seatCachePrefix+tripID, data, s.ttl).Err()
}

// InvalidateSeats removes the seat map of a trip from cache.
func (s *CacheStore) InvalidateSeats(ctx context.Context, tripID string) error {
	return s.client.Del(ctx, seatCachePrefix+tripID).Err()
}
