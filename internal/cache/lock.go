package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Domenick1991/aircheckin/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if the stored token still matches,
// as one indivisible step. A lock whose TTL expired and was re-acquired by
// another caller is never deleted by the original holder.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`

// SeatLockKey is the lock keyspace for seat contention: one seat within
// one flight, so unrelated seats never contend.
func SeatLockKey(flightID, seatID int64) string {
	return fmt.Sprintf("seat:%d:%d", flightID, seatID)
}

// Lock is a mutual-exclusion primitive over redis keyed by resource
// identity. It is a contention-avoidance layer on top of the storage
// transaction, not a replacement for it.
type Lock struct {
	client *redis.Client
	log    logger.Logger
}

func NewLock(client *redis.Client, log logger.Logger) *Lock {
	return &Lock{client: client, log: log}
}

// Acquire attempts a SET NX of a fresh random token under key with expiry
// ttl. It makes retries+1 attempts, sleeping retryDelay between them, and
// returns the empty string when the lock could not be obtained. It never
// blocks indefinitely.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration, retries int, retryDelay time.Duration) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}

	for i := 0; i <= retries; i++ {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			l.log.Error("lock acquisition error", "key", key, "error", err)
		} else if ok {
			return token, nil
		}

		if i < retries {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", nil
}

// Release deletes the lock if it is still owned by token. Failures are
// logged, never returned: losing a lock is not fatal because the TTL
// reclaims it.
func (l *Lock) Release(ctx context.Context, key, token string) {
	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		l.log.Error("lock release error", "key", key, "error", err)
	}
}

func randomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
