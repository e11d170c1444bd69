//go:build integration

package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	ordermongo "github.com/dwikikusuma/ordersvc/internal/order/infra/mongo"
	"github.com/dwikikusuma/ordersvc/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepo(t *testing.T) {
	ctx := context.Background()
	repo := ordermongo.NewOrderRepo(testutil.OpenMongo(t))

	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 7; i++ {
		o, err := repo.Insert(ctx, domain.Order{
			Timestamp:   ts,
			Items:       []domain.OrderItem{{ProductID: "665f1f77bcf86cd799439011", BoughtQuantity: int64(i + 1)}},
			UserAddress: domain.UserAddress{City: "Bandung", Country: "ID", ZipCode: "40111"},
			TotalAmount: decimal.RequireFromString("44.99"),
		})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	got, err := repo.Get(ctx, ids[2])
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Equal(t, int64(3), got.Items[0].BoughtQuantity)
	assert.Equal(t, "40111", got.UserAddress.ZipCode)
	assert.Equal(t, "44.99", got.TotalAmount.String())

	_, err = repo.Get(ctx, "665f1f77bcf86cd799439011")
	require.ErrorIs(t, err, app.ErrNotFound)

	first, err := repo.List(ctx, 3, 0)
	require.NoError(t, err)
	second, err := repo.List(ctx, 3, 3)
	require.NoError(t, err)
	last, err := repo.List(ctx, 3, 6)
	require.NoError(t, err)

	assert.Equal(t, int64(7), first.Total)
	var seen []string
	for _, page := range []domain.Page{first, second, last} {
		for _, o := range page.Orders {
			seen = append(seen, o.ID)
		}
	}
	assert.Equal(t, ids, seen)

	empty, err := repo.List(ctx, 3, 100)
	require.NoError(t, err)
	assert.Empty(t, empty.Orders)
}
