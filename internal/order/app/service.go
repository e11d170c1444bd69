package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"github.com/dwikikusuma/ordersvc/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100

	defaultMaxConcurrent  = 10
	defaultReleaseTimeout = 5 * time.Second
	defaultPublishTimeout = 3 * time.Second
)

type Service struct {
	repo      OrderRepo
	inventory Inventory

	idem    IdempotencyStore
	events  EventPublisher
	metrics *metrics.PlacementMetrics
	log     *zap.Logger
	tracer  trace.Tracer
	now     Clock

	maxConcurrent  int
	releaseTimeout time.Duration
	publishTimeout time.Duration

	// publishing tracks OrderPlaced events still in flight.
	publishing sync.WaitGroup
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option { return func(s *Service) { s.log = log } }

func WithIdempotency(store IdempotencyStore) Option { return func(s *Service) { s.idem = store } }

func WithEvents(pub EventPublisher) Option { return func(s *Service) { s.events = pub } }

func WithMetrics(m *metrics.PlacementMetrics) Option { return func(s *Service) { s.metrics = m } }

func WithClock(now Clock) Option { return func(s *Service) { s.now = now } }

// WithMaxConcurrent bounds parallel catalog lookups while quoting.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithReleaseTimeout bounds compensation, which runs even after the request
// context is done.
func WithReleaseTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.releaseTimeout = d
		}
	}
}

// WithPublishTimeout bounds each OrderPlaced publish. Publishing happens off
// the request path.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func NewService(repo OrderRepo, inventory Inventory, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		inventory:      inventory,
		log:            zap.NewNop(),
		tracer:         otel.Tracer("github.com/dwikikusuma/ordersvc/internal/order/app"),
		now:            time.Now,
		maxConcurrent:  defaultMaxConcurrent,
		releaseTimeout: defaultReleaseTimeout,
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Drain waits for OrderPlaced events that are still being published.
func (s *Service) Drain() {
	s.publishing.Wait()
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Order{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// ListOrders pages through orders in insertion order. A non-positive limit
// means the default; limits above MaxListLimit are clamped.
func (s *Service) ListOrders(ctx context.Context, limit, offset int) (domain.Page, error) {
	if offset < 0 {
		return domain.Page{}, fmt.Errorf("%w: offset must be non-negative, got %d", ErrInvalidInput, offset)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.List(ctx, limit, offset)
}
