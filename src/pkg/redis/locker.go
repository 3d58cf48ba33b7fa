package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another request holds one of the keys.
var ErrLockHeld = errors.New("redis: lock is held by another request")

// Deletes the key only while it still holds our token, so an expired lock
// re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker grants short-lived mutual exclusion over aggregate keys.
type Locker struct {
	Client   redis.UniversalClient
	TTL      time.Duration
	Retries  int
	Backoff  time.Duration
	NewToken func() string
}

func NewLocker(client redis.UniversalClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{
		Client:   client,
		TTL:      ttl,
		Retries:  3,
		Backoff:  50 * time.Millisecond,
		NewToken: uuid.NewString,
	}
}

// Acquire locks every key or none. Keys are taken in sorted order so two
// requests locking the same set cannot deadlock. The returned func releases
// everything that was acquired.
func (l *Locker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	sorted := dedupe(keys)
	sort.Strings(sorted)

	token := l.NewToken()
	held := make([]string, 0, len(sorted))
	release := func() {
		// the request context may already be done; release on a fresh one
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			_ = releaseScript.Run(rctx, l.Client, []string{held[i]}, token).Err()
		}
	}

	for _, key := range sorted {
		ok, err := l.tryLock(ctx, key, token)
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if !ok {
			release()
			return nil, fmt.Errorf("lock %s: %w", key, ErrLockHeld)
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *Locker) tryLock(ctx context.Context, key, token string) (bool, error) {
	for attempt := 0; ; attempt++ {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil || ok || attempt >= l.Retries {
			return ok, err
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(l.Backoff):
		}
	}
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func BookingLockKey(bookingID string) string {
	return "LOCK:BOOKING:" + bookingID
}

func WalletLockKey(userID string) string {
	return "LOCK:WALLET:" + userID
}
