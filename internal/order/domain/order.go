package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          string
	Timestamp   time.Time
	Items       []OrderItem
	UserAddress UserAddress
	TotalAmount decimal.Decimal
}

type OrderItem struct {
	ProductID      string
	BoughtQuantity int64
}

type UserAddress struct {
	City    string
	Country string
	ZipCode string
}

// PlaceOrderRequest is what a caller submits. ClientTotal is only compared
// against the computed total; it is never trusted.
type PlaceOrderRequest struct {
	Timestamp      time.Time
	Items          []OrderItem
	UserAddress    UserAddress
	ClientTotal    decimal.Decimal
	IdempotencyKey string
}

type Page struct {
	Total  int64
	Orders []Order
}

// QuoteLine is one priced product in an order, quantities of repeated lines
// already summed.
type QuoteLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Available int64
	LineTotal decimal.Decimal
}

type Quote struct {
	Lines []QuoteLine
	Total decimal.Decimal
}
