package app

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Quote prices items against the current catalog. Lines for the same product
// are merged, keeping the position of the first occurrence. Any unknown
// product rejects the whole quote.
func (s *Service) Quote(ctx context.Context, items []domain.OrderItem) (domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "order.quote")
	defer span.End()

	lines, err := mergeLines(items)
	if err != nil {
		return domain.Quote{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range lines {
		g.Go(func() error {
			ln := &lines[idx]
			product, err := s.inventory.GetProduct(gctx, ln.ProductID)
			if errors.Is(err, ErrNotFound) {
				return productNotFound(ln.ProductID)
			}
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", ln.ProductID, err)
			}

			ln.UnitPrice = product.Price
			ln.Available = product.Available
			ln.LineTotal = product.Price.Mul(decimal.NewFromInt(ln.Quantity))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	total := decimal.Zero
	for _, ln := range lines {
		total = total.Add(ln.LineTotal)
	}

	return domain.Quote{Lines: lines, Total: total}, nil
}

// mergeLines sums quantities per product. A sum past math.MaxInt64 is invalid
// input.
func mergeLines(items []domain.OrderItem) ([]domain.QuoteLine, error) {
	pos := make(map[string]int, len(items))
	lines := make([]domain.QuoteLine, 0, len(items))
	for _, it := range items {
		if i, ok := pos[it.ProductID]; ok {
			if it.BoughtQuantity > math.MaxInt64-lines[i].Quantity {
				return nil, fmt.Errorf("%w: total quantity for product %s overflows", ErrInvalidInput, it.ProductID)
			}
			lines[i].Quantity += it.BoughtQuantity
			continue
		}
		pos[it.ProductID] = len(lines)
		lines = append(lines, domain.QuoteLine{ProductID: it.ProductID, Quantity: it.BoughtQuantity})
	}
	return lines, nil
}
