package app_test

import (
	"context"
	"testing"

	"github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrders_Pagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product("P", "1", 100)

	var ids []string
	for i := 0; i < 25; i++ {
		o, err := f.svc.PlaceOrder(ctx, request(item(p, 1)))
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	t.Run("defaults", func(t *testing.T) {
		page, err := f.svc.ListOrders(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(25), page.Total)
		require.Len(t, page.Orders, app.DefaultListLimit)
		assert.Equal(t, ids[0], page.Orders[0].ID)
	})

	t.Run("pages are disjoint and ordered", func(t *testing.T) {
		first, err := f.svc.ListOrders(ctx, 10, 0)
		require.NoError(t, err)
		second, err := f.svc.ListOrders(ctx, 10, 10)
		require.NoError(t, err)

		var got []string
		for _, o := range append(first.Orders, second.Orders...) {
			got = append(got, o.ID)
		}
		assert.Equal(t, ids[:20], got)
	})

	t.Run("last page is short", func(t *testing.T) {
		page, err := f.svc.ListOrders(ctx, 10, 20)
		require.NoError(t, err)
		assert.Len(t, page.Orders, 5)
		assert.Equal(t, int64(25), page.Total)
	})

	t.Run("offset past the end", func(t *testing.T) {
		page, err := f.svc.ListOrders(ctx, 10, 500)
		require.NoError(t, err)
		assert.NotNil(t, page.Orders)
		assert.Empty(t, page.Orders)
		assert.Equal(t, int64(25), page.Total)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		page, err := f.svc.ListOrders(ctx, 10_000, 0)
		require.NoError(t, err)
		assert.Len(t, page.Orders, 25)
	})

	t.Run("negative offset", func(t *testing.T) {
		_, err := f.svc.ListOrders(ctx, 10, -1)
		require.ErrorIs(t, err, app.ErrInvalidInput)
	})
}

func TestListOrders_Empty(t *testing.T) {
	f := newFixture(t)

	page, err := f.svc.ListOrders(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Orders)
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.GetOrder(ctx, " ")
	require.ErrorIs(t, err, app.ErrInvalidInput)

	_, err = f.svc.GetOrder(ctx, "665f1f77bcf86cd799439011")
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, app.WithMaxConcurrent(2))
	a := f.product("A", "1.10", 5)
	b := f.product("B", "0.30", 1)
	c := f.product("C", "100", 0)

	quote, err := f.svc.Quote(ctx, request(item(a, 3), item(b, 3), item(c, 1), item(a, 1)).Items)
	require.NoError(t, err)

	require.Len(t, quote.Lines, 3)
	assert.Equal(t, a, quote.Lines[0].ProductID)
	assert.Equal(t, int64(4), quote.Lines[0].Quantity)
	assert.Equal(t, "4.4", quote.Lines[0].LineTotal.String())
	assert.Equal(t, int64(1), quote.Lines[1].Available)
	assert.Equal(t, "105.3", quote.Total.String())

	// Quoting is read-only.
	assert.Equal(t, int64(5), f.available(t, a))
}
