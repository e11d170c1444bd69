package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/ordersvc/internal/order/app"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "ordersvc:idempotency:"
	pending   = "-"
)

// IdempotencyStore keeps key -> order id in Redis. A claimed key holds a
// placeholder until the order is stored.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Begin(ctx context.Context, key string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pending, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%w: claim idempotency key: %v", app.ErrStoreUnavailable, err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		// Expired or aborted between SETNX and GET; let the caller retry.
		return "", false, app.ErrIdempotencyInFlight
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read idempotency key: %v", app.ErrStoreUnavailable, err)
	}
	if val == pending {
		return "", false, app.ErrIdempotencyInFlight
	}
	return val, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	return s.client.Set(ctx, keyPrefix+key, orderID, s.ttl).Err()
}

// abortScript deletes the key only while it still holds the placeholder.
var abortScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	return abortScript.Run(ctx, s.client, []string{keyPrefix + key}, pending).Err()
}
