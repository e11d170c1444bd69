package gateway

import (
	"errors"
	"strings"
	"time"

	catalogdomain "github.com/dwikikusuma/ordersvc/internal/catalog/domain"
	orderdomain "github.com/dwikikusuma/ordersvc/internal/order/domain"
	"github.com/shopspring/decimal"
)

type productResponse struct {
	ID                string  `json:"_id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	AvailableQuantity int64   `json:"available_quantity"`
}

type newQuantityRequest struct {
	NewQuantity *int64 `json:"new_quantity" binding:"required"`
}

type orderItemPayload struct {
	ProductID      string `json:"product_id" binding:"required"`
	BoughtQuantity int64  `json:"bought_quantity" binding:"required,gt=0"`
}

type userAddressPayload struct {
	City    string `json:"city" binding:"required"`
	Country string `json:"country" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
}

type placeOrderRequest struct {
	Timestamp   string             `json:"timestamp"`
	Items       []orderItemPayload `json:"items" binding:"required,min=1,dive"`
	UserAddress userAddressPayload `json:"user_address" binding:"required"`
	TotalAmount *float64           `json:"total_amount"`
}

type placeOrderResponse struct {
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
}

type orderResponse struct {
	ID          string             `json:"_id"`
	Timestamp   string             `json:"timestamp"`
	Items       []orderItemPayload `json:"items"`
	UserAddress userAddressPayload `json:"user_address"`
	TotalAmount float64            `json:"total_amount"`
}

type listOrdersQuery struct {
	Limit  int `form:"limit,default=10"`
	Offset int `form:"offset,default=0"`
}

type listOrdersResponse struct {
	TotalOrders int64           `json:"total_orders"`
	Orders      []orderResponse `json:"orders"`
}

// Accepted order timestamps. Zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("timestamp must be RFC 3339 or \"YYYY-MM-DD HH:MM:SS\"")
}

func (r placeOrderRequest) toDomain(idempotencyKey string) (orderdomain.PlaceOrderRequest, error) {
	ts, err := parseTimestamp(r.Timestamp)
	if err != nil {
		return orderdomain.PlaceOrderRequest{}, err
	}

	items := make([]orderdomain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, orderdomain.OrderItem{ProductID: it.ProductID, BoughtQuantity: it.BoughtQuantity})
	}

	req := orderdomain.PlaceOrderRequest{
		Timestamp: ts,
		Items:     items,
		UserAddress: orderdomain.UserAddress{
			City:    r.UserAddress.City,
			Country: r.UserAddress.Country,
			ZipCode: r.UserAddress.ZipCode,
		},
		IdempotencyKey: idempotencyKey,
	}
	if r.TotalAmount != nil {
		req.ClientTotal = decimal.NewFromFloat(*r.TotalAmount)
	}
	return req, nil
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price.InexactFloat64(),
		AvailableQuantity: p.AvailableQuantity,
	}
}

func toOrderResponse(o orderdomain.Order) orderResponse {
	items := make([]orderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemPayload{ProductID: it.ProductID, BoughtQuantity: it.BoughtQuantity})
	}
	return orderResponse{
		ID:        o.ID,
		Timestamp: o.Timestamp.UTC().Format(time.RFC3339Nano),
		Items:     items,
		UserAddress: userAddressPayload{
			City:    o.UserAddress.City,
			Country: o.UserAddress.Country,
			ZipCode: o.UserAddress.ZipCode,
		},
		TotalAmount: o.TotalAmount.InexactFloat64(),
	}
}
