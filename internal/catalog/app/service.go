package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/ordersvc/internal/catalog/domain"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrStoreUnavailable     = errors.New("catalog store unavailable")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, strings.TrimSpace(id))
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// SetAvailableQuantity returns false, nil when no product has the given id.
func (s *Service) SetAvailableQuantity(ctx context.Context, id string, quantity int64) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, ErrInvalidInput
	}
	if quantity < 0 {
		return false, fmt.Errorf("%w: quantity must be non-negative, got %d", ErrInvalidInput, quantity)
	}
	return s.repo.SetAvailableQuantity(ctx, id, quantity)
}

// Reserve takes qty units of a product or fails without touching it.
func (s *Service) Reserve(ctx context.Context, id string, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: reserve quantity must be positive, got %d", ErrInvalidInput, qty)
	}
	return s.repo.Decrement(ctx, id, qty)
}

// Release gives back units taken by Reserve.
func (s *Service) Release(ctx context.Context, id string, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: release quantity must be positive, got %d", ErrInvalidInput, qty)
	}
	return s.repo.Increment(ctx, id, qty)
}
