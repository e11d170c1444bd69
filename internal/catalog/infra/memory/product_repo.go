// Package memory is an in-process catalog store used by tests and local runs
// without MongoDB.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dwikikusuma/ordersvc/internal/catalog/app"
	"github.com/dwikikusuma/ordersvc/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
	// Fail, when set, is returned by every operation (store outage).
	Fail error
}

func NewProductRepo(seed ...domain.Product) *ProductRepo {
	r := &ProductRepo{products: make(map[string]domain.Product)}
	for _, p := range seed {
		r.Put(p)
	}
	return r
}

// Put inserts or replaces a product, assigning an ObjectID-style id when empty.
func (r *ProductRepo) Put(p domain.Product) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	r.products[p.ID] = p
	return p
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx); err != nil {
		return domain.Product{}, err
	}
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepo) SetAvailableQuantity(ctx context.Context, id string, quantity int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx); err != nil {
		return false, err
	}
	p, ok := r.products[id]
	if !ok {
		return false, nil
	}
	p.AvailableQuantity = quantity
	r.products[id] = p
	return true, nil
}

func (r *ProductRepo) Decrement(ctx context.Context, id string, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx); err != nil {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return app.ErrNotFound
	}
	if p.AvailableQuantity < qty {
		return app.ErrInsufficientQuantity
	}
	p.AvailableQuantity -= qty
	r.products[id] = p
	return nil
}

func (r *ProductRepo) Increment(ctx context.Context, id string, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx); err != nil {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return app.ErrNotFound
	}
	p.AvailableQuantity += qty
	r.products[id] = p
	return nil
}

func (r *ProductRepo) check(ctx context.Context) error {
	if r.Fail != nil {
		return r.Fail
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", app.ErrStoreUnavailable, err)
	}
	return nil
}
