package adapter

import (
	"context"
	"errors"

	catalogapp "github.com/dwikikusuma/ordersvc/internal/catalog/app"
	orderapp "github.com/dwikikusuma/ordersvc/internal/order/app"
)

// CatalogInventory exposes the catalog service as the order engine's
// Inventory, mapping catalog errors onto order errors.
type CatalogInventory struct {
	svc *catalogapp.Service
}

func NewCatalogInventory(svc *catalogapp.Service) *CatalogInventory {
	return &CatalogInventory{svc: svc}
}

func (c *CatalogInventory) GetProduct(ctx context.Context, productID string) (orderapp.Product, error) {
	p, err := c.svc.GetProduct(ctx, productID)
	if err != nil {
		return orderapp.Product{}, translate(err)
	}

	return orderapp.Product{
		ID:        p.ID,
		Price:     p.Price,
		Available: p.AvailableQuantity,
	}, nil
}

func (c *CatalogInventory) Reserve(ctx context.Context, productID string, qty int64) error {
	return translate(c.svc.Reserve(ctx, productID, qty))
}

func (c *CatalogInventory) Release(ctx context.Context, productID string, qty int64) error {
	return translate(c.svc.Release(ctx, productID, qty))
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalogapp.ErrNotFound):
		return errors.Join(orderapp.ErrNotFound, err)
	case errors.Is(err, catalogapp.ErrInsufficientQuantity):
		return errors.Join(orderapp.ErrInsufficientStock, err)
	case errors.Is(err, catalogapp.ErrStoreUnavailable):
		return errors.Join(orderapp.ErrStoreUnavailable, err)
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return errors.Join(orderapp.ErrInvalidInput, err)
	default:
		return err
	}
}
