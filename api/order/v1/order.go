// Package orderv1 is the OrderService contract. Money travels as decimal
// strings; timestamps as RFC 3339.
package orderv1

import (
	"context"

	"github.com/dwikikusuma/ordersvc/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "ordersvc.order.v1.OrderService"

type OrderItem struct {
	ProductId      string `json:"product_id"`
	BoughtQuantity int64  `json:"bought_quantity"`
}

type UserAddress struct {
	City    string `json:"city"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

type Order struct {
	Id          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Items       []*OrderItem `json:"items"`
	UserAddress *UserAddress `json:"user_address"`
	TotalAmount string       `json:"total_amount"`
}

type PlaceOrderRequest struct {
	Timestamp      string       `json:"timestamp,omitempty"`
	Items          []*OrderItem `json:"items"`
	UserAddress    *UserAddress `json:"user_address"`
	TotalAmount    string       `json:"total_amount,omitempty"`
	IdempotencyKey string       `json:"idempotency_key,omitempty"`
}

type PlaceOrderResponse struct {
	OrderId     string `json:"order_id"`
	TotalAmount string `json:"total_amount"`
}

type GetOrderRequest struct {
	Id string `json:"id"`
}

type GetOrderResponse struct {
	Order *Order `json:"order"`
}

type ListOrdersRequest struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

type ListOrdersResponse struct {
	TotalOrders int64    `json:"total_orders"`
	Orders      []*Order `json:"orders"`
}

type OrderServiceServer interface {
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
}

var OrderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "PlaceOrder", OrderServiceServer.PlaceOrder),
		grpcjson.Unary(ServiceName, "GetOrder", OrderServiceServer.GetOrder),
		grpcjson.Unary(ServiceName, "ListOrders", OrderServiceServer.ListOrders),
	},
	Metadata: "order/v1/order.go",
}

func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderService_ServiceDesc, srv)
}

type OrderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderServiceClient(cc grpc.ClientConnInterface) *OrderServiceClient {
	return &OrderServiceClient{cc: cc}
}

func (c *OrderServiceClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	return grpcjson.Invoke[PlaceOrderResponse](ctx, c.cc, ServiceName, "PlaceOrder", in, opts...)
}

func (c *OrderServiceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*GetOrderResponse, error) {
	return grpcjson.Invoke[GetOrderResponse](ctx, c.cc, ServiceName, "GetOrder", in, opts...)
}

func (c *OrderServiceClient) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return grpcjson.Invoke[ListOrdersResponse](ctx, c.cc, ServiceName, "ListOrders", in, opts...)
}
