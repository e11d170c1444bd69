package app

import (
	"context"

	"github.com/dwikikusuma/ordersvc/internal/catalog/domain"
)

// ProductRepo is the catalog store. Implementations return ErrNotFound for
// unknown or malformed ids and wrap transport failures with ErrStoreUnavailable.
type ProductRepo interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// SetAvailableQuantity overwrites the quantity and reports whether a
	// product matched.
	SetAvailableQuantity(ctx context.Context, id string, quantity int64) (bool, error)
	// Decrement subtracts qty only while available_quantity >= qty, as one
	// atomic step. It returns ErrInsufficientQuantity when the guard fails.
	Decrement(ctx context.Context, id string, qty int64) error
	Increment(ctx context.Context, id string, qty int64) error
}
