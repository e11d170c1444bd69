package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/ordersvc/internal/order/app"
)

type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string // key -> order id, "" while in flight
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]string)}
}

func (s *IdempotencyStore) Begin(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orderID, ok := s.keys[key]
	if !ok {
		s.keys[key] = ""
		return "", true, nil
	}
	if orderID == "" {
		return "", false, app.ErrIdempotencyInFlight
	}
	return orderID, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = orderID
	return nil
}

func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] == "" {
		delete(s.keys, key)
	}
	return nil
}
