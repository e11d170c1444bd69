// Package catalogv1 is the CatalogService contract. Messages are plain structs
// carried by the grpcjson codec.
package catalogv1

import (
	"context"

	"github.com/dwikikusuma/ordersvc/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "ordersvc.catalog.v1.CatalogService"

type Product struct {
	Id                string `json:"id"`
	Name              string `json:"name"`
	Price             string `json:"price"`
	AvailableQuantity int64  `json:"available_quantity"`
}

type GetProductRequest struct {
	Id string `json:"id"`
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

type SetAvailableQuantityRequest struct {
	Id       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

type SetAvailableQuantityResponse struct {
	Message string `json:"message"`
}

func (r *GetProductRequest) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

type CatalogServiceServer interface {
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	SetAvailableQuantity(context.Context, *SetAvailableQuantityRequest) (*SetAvailableQuantityResponse, error)
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "GetProduct", CatalogServiceServer.GetProduct),
		grpcjson.Unary(ServiceName, "ListProducts", CatalogServiceServer.ListProducts),
		grpcjson.Unary(ServiceName, "SetAvailableQuantity", CatalogServiceServer.SetAvailableQuantity),
	},
	Metadata: "catalog/v1/catalog.go",
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

type CatalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) *CatalogServiceClient {
	return &CatalogServiceClient{cc: cc}
}

func (c *CatalogServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error) {
	return grpcjson.Invoke[GetProductResponse](ctx, c.cc, ServiceName, "GetProduct", in, opts...)
}

func (c *CatalogServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return grpcjson.Invoke[ListProductsResponse](ctx, c.cc, ServiceName, "ListProducts", in, opts...)
}

func (c *CatalogServiceClient) SetAvailableQuantity(ctx context.Context, in *SetAvailableQuantityRequest, opts ...grpc.CallOption) (*SetAvailableQuantityResponse, error) {
	return grpcjson.Invoke[SetAvailableQuantityResponse](ctx, c.cc, ServiceName, "SetAvailableQuantity", in, opts...)
}
