package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"go.uber.org/zap"
)

// reserve takes stock for every line or for none. A failed line triggers
// release of the lines already taken before the error is returned.
func (s *Service) reserve(ctx context.Context, lines []domain.QuoteLine) error {
	ctx, span := s.tracer.Start(ctx, "order.reserve")
	defer span.End()

	reserved := make([]domain.QuoteLine, 0, len(lines))
	for _, ln := range lines {
		err := s.inventory.Reserve(ctx, ln.ProductID, ln.Quantity)
		if err == nil {
			reserved = append(reserved, ln)
			continue
		}

		s.release(ctx, reserved)

		switch {
		case errors.Is(err, ErrInsufficientStock):
			available := ln.Available
			if p, gerr := s.inventory.GetProduct(ctx, ln.ProductID); gerr == nil {
				available = p.Available
			}
			return insufficient(ln.ProductID, ln.Quantity, available)
		case errors.Is(err, ErrNotFound):
			return productNotFound(ln.ProductID)
		default:
			return fmt.Errorf("reserve product %s: %w", ln.ProductID, err)
		}
	}
	return nil
}

// release hands back reserved stock in reverse order. It runs on a context
// detached from the caller's cancellation so a timed-out request still
// compensates.
func (s *Service) release(ctx context.Context, lines []domain.QuoteLine) {
	if len(lines) == 0 {
		return
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.releaseTimeout)
	defer cancel()

	for i := len(lines) - 1; i >= 0; i-- {
		ln := lines[i]
		if err := s.inventory.Release(rctx, ln.ProductID, ln.Quantity); err != nil {
			// Stock stays debited until someone corrects it by hand.
			s.log.Error("release reserved stock failed",
				zap.String("product_id", ln.ProductID),
				zap.Int64("quantity", ln.Quantity),
				zap.Error(err),
			)
		}
	}
}
