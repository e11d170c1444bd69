package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// PlaceOrder prices the request from the catalog, reserves stock for every
// line and stores the order. It either returns the stored order or an error
// and leaves no stock taken: a *RejectionError for business refusals,
// ErrInvalidInput for malformed requests, anything else is a failure.
func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (order domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "order.place")
	defer func() {
		s.observe(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("order.id", order.ID))
		}
		span.End()
	}()

	if err := validate(req); err != nil {
		return domain.Order{}, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" || s.idem == nil {
		return s.place(ctx, req)
	}

	existing, claimed, err := s.idem.Begin(ctx, key)
	if err != nil {
		return domain.Order{}, err
	}
	if !claimed {
		s.log.Info("idempotent replay", zap.String("idempotency_key", key), zap.String("order_id", existing))
		return s.repo.Get(ctx, existing)
	}

	order, err = s.place(ctx, req)

	dctx := context.WithoutCancel(ctx)
	if err != nil {
		if aerr := s.idem.Abort(dctx, key); aerr != nil {
			s.log.Warn("abort idempotency key failed", zap.String("idempotency_key", key), zap.Error(aerr))
		}
		return domain.Order{}, err
	}
	if cerr := s.complete(dctx, key, order.ID); cerr != nil {
		s.log.Warn("complete idempotency key failed", zap.String("idempotency_key", key), zap.String("order_id", order.ID), zap.Error(cerr))
	}
	return order, nil
}

// complete records the order for key, retrying once. A key left claimed keeps
// answering in-flight until its TTL expires.
func (s *Service) complete(ctx context.Context, key, orderID string) error {
	err := s.idem.Complete(ctx, key, orderID)
	if err == nil {
		return nil
	}
	s.log.Info("retrying complete idempotency key", zap.String("idempotency_key", key), zap.Error(err))
	return s.idem.Complete(ctx, key, orderID)
}

func (s *Service) place(ctx context.Context, req domain.PlaceOrderRequest) (domain.Order, error) {
	quote, err := s.Quote(ctx, req.Items)
	if err != nil {
		return domain.Order{}, err
	}

	if !req.ClientTotal.IsZero() && !req.ClientTotal.Equal(quote.Total) {
		s.log.Warn("client total differs from computed total",
			zap.String("client_total", req.ClientTotal.String()),
			zap.String("computed_total", quote.Total.String()),
		)
	}

	// Fail fast on quoted availability before touching any stock.
	for _, ln := range quote.Lines {
		if ln.Quantity > ln.Available {
			return domain.Order{}, insufficient(ln.ProductID, ln.Quantity, ln.Available)
		}
	}

	if err := s.reserve(ctx, quote.Lines); err != nil {
		return domain.Order{}, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	pctx, span := s.tracer.Start(ctx, "order.persist")
	stored, err := s.repo.Insert(pctx, domain.Order{
		Timestamp:   ts.UTC(),
		Items:       append([]domain.OrderItem(nil), req.Items...),
		UserAddress: req.UserAddress,
		TotalAmount: quote.Total,
	})
	span.End()
	if err != nil {
		s.release(ctx, quote.Lines)
		return domain.Order{}, fmt.Errorf("failed to persist order: %w", err)
	}

	s.log.Info("order placed",
		zap.String("order_id", stored.ID),
		zap.String("total_amount", stored.TotalAmount.String()),
		zap.Int("lines", len(quote.Lines)),
	)

	s.publish(ctx, stored)
	return stored, nil
}

// publish sends OrderPlaced in the background on a context detached from the
// request. Failures are logged only.
func (s *Service) publish(ctx context.Context, order domain.Order) {
	if s.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()
		defer cancel()
		if err := s.events.OrderPlaced(pctx, order); err != nil {
			s.log.Warn("publish order placed failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}()
}

func validate(req domain.PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrInvalidInput)
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: item %d: product_id is required", ErrInvalidInput, i)
		}
		if it.BoughtQuantity <= 0 {
			return fmt.Errorf("%w: item %d: bought_quantity must be positive, got %d", ErrInvalidInput, i, it.BoughtQuantity)
		}
	}
	addr := req.UserAddress
	if strings.TrimSpace(addr.City) == "" || strings.TrimSpace(addr.Country) == "" || strings.TrimSpace(addr.ZipCode) == "" {
		return fmt.Errorf("%w: user_address requires city, country and zip_code", ErrInvalidInput)
	}
	if req.ClientTotal.IsNegative() {
		return fmt.Errorf("%w: total_amount cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (s *Service) observe(err error) {
	if s.metrics == nil {
		return
	}
	var rej *RejectionError
	switch {
	case err == nil:
		s.metrics.Placed.Inc()
	case errors.As(err, &rej):
		s.metrics.Rejected.WithLabelValues(string(rej.Reason)).Inc()
	case errors.Is(err, ErrInvalidInput):
		s.metrics.Rejected.WithLabelValues("invalid_input").Inc()
	default:
		s.metrics.Failed.Inc()
	}
}
