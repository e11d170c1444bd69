package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"github.com/shopspring/decimal"
)

type OrderRepo interface {
	// Insert assigns the id and returns the stored order.
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, limit, offset int) (domain.Page, error)
}

// Inventory is the catalog as seen by the placement engine. Implementations
// translate store errors into this package's sentinels.
type Inventory interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
	Reserve(ctx context.Context, productID string, qty int64) error
	Release(ctx context.Context, productID string, qty int64) error
}

type Product struct {
	ID        string
	Price     decimal.Decimal
	Available int64
}

// IdempotencyStore remembers which order a client key produced.
type IdempotencyStore interface {
	// Begin claims key. If the key already completed, it returns the order id
	// with claimed=false. If another request holds it, ErrIdempotencyInFlight.
	Begin(ctx context.Context, key string) (orderID string, claimed bool, err error)
	Complete(ctx context.Context, key, orderID string) error
	// Abort drops a claim so the client may retry with the same key.
	Abort(ctx context.Context, key string) error
}

type EventPublisher interface {
	OrderPlaced(ctx context.Context, order domain.Order) error
}

type Clock func() time.Time
