// Package memory holds in-process order and idempotency stores for tests and
// for running without MongoDB or Redis.
package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepo struct {
	mu     sync.RWMutex
	orders []domain.Order
	byID   map[string]int
	// Fail, when set, is returned by Insert.
	Fail error
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{byID: make(map[string]int)}
}

func (r *OrderRepo) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return domain.Order{}, r.Fail
	}
	order.ID = primitive.NewObjectID().Hex()
	order = cloneOrder(order)
	r.byID[order.ID] = len(r.orders)
	r.orders = append(r.orders, order)
	return cloneOrder(order), nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	return cloneOrder(r.orders[i]), nil
}

func (r *OrderRepo) List(ctx context.Context, limit, offset int) (domain.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := domain.Page{Total: int64(len(r.orders)), Orders: []domain.Order{}}
	if offset >= len(r.orders) {
		return page, nil
	}
	end := min(offset+limit, len(r.orders))
	for _, o := range r.orders[offset:end] {
		page.Orders = append(page.Orders, cloneOrder(o))
	}
	return page, nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

// Len reports how many orders were stored.
func (r *OrderRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
