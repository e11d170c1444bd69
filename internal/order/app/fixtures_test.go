package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	catalogapp "github.com/dwikikusuma/ordersvc/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/ordersvc/internal/catalog/domain"
	catalogmem "github.com/dwikikusuma/ordersvc/internal/catalog/infra/memory"
	"github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"github.com/dwikikusuma/ordersvc/internal/order/infra/adapter"
	ordermem "github.com/dwikikusuma/ordersvc/internal/order/infra/memory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	svc     *app.Service
	catalog *catalogmem.ProductRepo
	orders  *ordermem.OrderRepo
	inv     *flakyInventory
}

func newFixture(t *testing.T, opts ...app.Option) *fixture {
	t.Helper()
	catalog := catalogmem.NewProductRepo()
	orders := ordermem.NewOrderRepo()
	inv := &flakyInventory{Inventory: adapter.NewCatalogInventory(catalogapp.NewService(catalog))}

	opts = append([]app.Option{app.WithLogger(zaptest.NewLogger(t))}, opts...)
	svc := app.NewService(orders, inv, opts...)
	t.Cleanup(svc.Drain)
	return &fixture{
		svc:     svc,
		catalog: catalog,
		orders:  orders,
		inv:     inv,
	}
}

func (f *fixture) product(name, price string, qty int64) string {
	p := f.catalog.Put(catalogdomain.Product{
		Name:              name,
		Price:             decimal.RequireFromString(price),
		AvailableQuantity: qty,
	})
	return p.ID
}

func (f *fixture) available(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.catalog.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get product %s: %v", id, err)
	}
	return p.AvailableQuantity
}

func request(items ...domain.OrderItem) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{
		Items:       items,
		UserAddress: domain.UserAddress{City: "Bandung", Country: "ID", ZipCode: "40111"},
	}
}

func item(productID string, qty int64) domain.OrderItem {
	return domain.OrderItem{ProductID: productID, BoughtQuantity: qty}
}

// flakyInventory injects failures into Reserve for chosen products.
type flakyInventory struct {
	app.Inventory

	mu         sync.Mutex
	reserveErr map[string]func(ctx context.Context) error
	releases   []string
}

func (f *flakyInventory) failReserve(productID string, fn func(ctx context.Context) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr == nil {
		f.reserveErr = make(map[string]func(ctx context.Context) error)
	}
	f.reserveErr[productID] = fn
}

func (f *flakyInventory) Reserve(ctx context.Context, productID string, qty int64) error {
	f.mu.Lock()
	fn := f.reserveErr[productID]
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return f.Inventory.Reserve(ctx, productID, qty)
}

func (f *flakyInventory) Release(ctx context.Context, productID string, qty int64) error {
	f.mu.Lock()
	f.releases = append(f.releases, productID)
	f.mu.Unlock()
	return f.Inventory.Release(ctx, productID, qty)
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []domain.Order
	err    error
}

func (p *recordingPublisher) OrderPlaced(_ context.Context, o domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
	return p.err
}

func (p *recordingPublisher) published() []domain.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Order(nil), p.orders...)
}

func (p *recordingPublisher) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// blockingPublisher holds every publish until its context ends.
type blockingPublisher struct {
	done chan error
}

func (p *blockingPublisher) OrderPlaced(ctx context.Context, _ domain.Order) error {
	<-ctx.Done()
	p.done <- ctx.Err()
	return ctx.Err()
}

// flakyIdempotency fails the first n Complete calls.
type flakyIdempotency struct {
	app.IdempotencyStore

	mu        sync.Mutex
	failures  int
	completes int
}

func (f *flakyIdempotency) Complete(ctx context.Context, key, orderID string) error {
	f.mu.Lock()
	f.completes++
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()
	if fail {
		return errors.New("redis: connection reset")
	}
	return f.IdempotencyStore.Complete(ctx, key, orderID)
}
