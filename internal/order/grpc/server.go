package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	orderv1 "github.com/dwikikusuma/ordersvc/api/order/v1"
	"github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) PlaceOrder(ctx context.Context, req *orderv1.PlaceOrderRequest) (*orderv1.PlaceOrderResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, status.Error(codes.InvalidArgument, "items must not be empty")
	}

	orderRequest, err := s.mapProtoToPlaceOrderReq(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	order, err := s.svc.PlaceOrder(ctx, orderRequest)
	if err != nil {
		return nil, mapErr(err)
	}
	return &orderv1.PlaceOrderResponse{
		OrderId:     order.ID,
		TotalAmount: order.TotalAmount.String(),
	}, nil
}

func (s *Server) GetOrder(ctx context.Context, req *orderv1.GetOrderRequest) (*orderv1.GetOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	order, err := s.svc.GetOrder(ctx, req.Id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &orderv1.GetOrderResponse{Order: toProto(order)}, nil
}

func (s *Server) ListOrders(ctx context.Context, req *orderv1.ListOrdersRequest) (*orderv1.ListOrdersResponse, error) {
	var limit, offset int
	if req != nil {
		limit, offset = int(req.Limit), int(req.Offset)
	}

	page, err := s.svc.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]*orderv1.Order, 0, len(page.Orders))
	for _, o := range page.Orders {
		out = append(out, toProto(o))
	}
	return &orderv1.ListOrdersResponse{TotalOrders: page.Total, Orders: out}, nil
}

func (s *Server) mapProtoToPlaceOrderReq(req *orderv1.PlaceOrderRequest) (domain.PlaceOrderRequest, error) {
	items := make([]domain.OrderItem, 0, len(req.Items))
	for i, item := range req.Items {
		if item == nil {
			return domain.PlaceOrderRequest{}, fmt.Errorf("items[%d] must not be null", i)
		}
		items = append(items, domain.OrderItem{
			ProductID:      item.ProductId,
			BoughtQuantity: item.BoughtQuantity,
		})
	}

	out := domain.PlaceOrderRequest{
		Items:          items,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.UserAddress != nil {
		out.UserAddress = domain.UserAddress{
			City:    req.UserAddress.City,
			Country: req.UserAddress.Country,
			ZipCode: req.UserAddress.ZipCode,
		}
	}
	if ts := strings.TrimSpace(req.Timestamp); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return domain.PlaceOrderRequest{}, errors.New("timestamp must be RFC 3339")
		}
		out.Timestamp = t
	}
	if total := strings.TrimSpace(req.TotalAmount); total != "" {
		d, err := decimal.NewFromString(total)
		if err != nil {
			return domain.PlaceOrderRequest{}, errors.New("total_amount must be a decimal")
		}
		out.ClientTotal = d
	}
	return out, nil
}

func toProto(o domain.Order) *orderv1.Order {
	items := make([]*orderv1.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, &orderv1.OrderItem{ProductId: it.ProductID, BoughtQuantity: it.BoughtQuantity})
	}
	return &orderv1.Order{
		Id:        o.ID,
		Timestamp: o.Timestamp.UTC().Format(time.RFC3339Nano),
		Items:     items,
		UserAddress: &orderv1.UserAddress{
			City:    o.UserAddress.City,
			Country: o.UserAddress.Country,
			ZipCode: o.UserAddress.ZipCode,
		},
		TotalAmount: o.TotalAmount.String(),
	}
}

func mapErr(err error) error {
	var rej *app.RejectionError
	switch {
	case errors.As(err, &rej):
		return status.Error(codes.FailedPrecondition, rej.Error())
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrNotFound):
		return status.Error(codes.NotFound, "order not found")
	case errors.Is(err, app.ErrIdempotencyInFlight):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, app.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, "store unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
