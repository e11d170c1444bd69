package grpc

import (
	"context"
	"errors"

	catalogv1 "github.com/dwikikusuma/ordersvc/api/catalog/v1"
	"github.com/dwikikusuma/ordersvc/internal/catalog/app"
	"github.com/dwikikusuma/ordersvc/internal/catalog/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) GetProduct(ctx context.Context, req *catalogv1.GetProductRequest) (*catalogv1.GetProductResponse, error) {
	p, err := s.svc.GetProduct(ctx, req.GetId())
	if err != nil {
		return nil, mapErr(err)
	}
	return &catalogv1.GetProductResponse{Product: toProto(p)}, nil
}

func (s *Server) ListProducts(ctx context.Context, _ *catalogv1.ListProductsRequest) (*catalogv1.ListProductsResponse, error) {
	products, err := s.svc.ListProducts(ctx)
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]*catalogv1.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toProto(p))
	}

	return &catalogv1.ListProductsResponse{Products: out}, nil
}

func (s *Server) SetAvailableQuantity(ctx context.Context, req *catalogv1.SetAvailableQuantityRequest) (*catalogv1.SetAvailableQuantityResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing body")
	}
	ok, err := s.svc.SetAvailableQuantity(ctx, req.Id, req.Quantity)
	if err != nil {
		return nil, mapErr(err)
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "product not found")
	}
	return &catalogv1.SetAvailableQuantityResponse{Message: "Product updated successfully"}, nil
}

func toProto(p domain.Product) *catalogv1.Product {
	return &catalogv1.Product{
		Id:                p.ID,
		Name:              p.Name,
		Price:             p.Price.String(),
		AvailableQuantity: p.AvailableQuantity,
	}
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	if errors.Is(err, app.ErrStoreUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.Unavailable, "catalog store unavailable")
	}
	return status.Error(codes.Internal, "internal error")
}
