package app

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrRejected            = errors.New("order rejected")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrIdempotencyInFlight = errors.New("idempotency key in flight")
)

type RejectionReason string

const (
	ReasonProductNotFound       RejectionReason = "product_not_found"
	ReasonInsufficientInventory RejectionReason = "insufficient_inventory"
)

// RejectionError is a business refusal of an order. It matches ErrRejected
// under errors.Is and carries the offending product.
type RejectionError struct {
	Reason    RejectionReason
	ProductID string
	Requested int64
	Available int64
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonInsufficientInventory:
		return fmt.Sprintf("not enough quantity available for product %s: requested %d, available %d",
			e.ProductID, e.Requested, e.Available)
	case ReasonProductNotFound:
		return fmt.Sprintf("product %s not found", e.ProductID)
	default:
		return fmt.Sprintf("order rejected: %s (product %s)", e.Reason, e.ProductID)
	}
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

func insufficient(productID string, requested, available int64) *RejectionError {
	return &RejectionError{
		Reason:    ReasonInsufficientInventory,
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func productNotFound(productID string) *RejectionError {
	return &RejectionError{Reason: ReasonProductNotFound, ProductID: productID}
}
