package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed seat locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func seatLockKey(tripID, seatID string) string {
	return fmt.Sprintf("lock:seat:%s:%s", tripID, seatID)
}

// AcquireSeatLock attempts to acquire a lock on one seat of a trip for
// the given owner. Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireSeatLock(ctx context.Context, tripID, seatID, owner string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, seatLockKey(tripID, seatID), owner, ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// releaseIfOwner deletes the key only when it still holds the owner's token.
var releaseIfOwner = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseSeatLock releases the lock on a seat if owner still holds it.
func (s *LockStore) ReleaseSeatLock(ctx context.Context, tripID, seatID, owner string) error {
	return releaseIfOwner.Run(ctx, s.client, []string{seatLockKey(tripID, seatID)}, owner).Err()
}
