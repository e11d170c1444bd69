package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/dwikikusuma/ordersvc/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/ordersvc/internal/catalog/domain"
	catalogmem "github.com/dwikikusuma/ordersvc/internal/catalog/infra/memory"
	orderapp "github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/dwikikusuma/ordersvc/internal/order/infra/adapter"
	ordermem "github.com/dwikikusuma/ordersvc/internal/order/infra/memory"
	"github.com/dwikikusuma/ordersvc/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	catalog *catalogmem.ProductRepo
	orders  *ordermem.OrderRepo
	ready   error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		catalog: catalogmem.NewProductRepo(),
		orders:  ordermem.NewOrderRepo(),
	}
	catalogSvc := catalogapp.NewService(ts.catalog)
	orderSvc := orderapp.NewService(ts.orders, adapter.NewCatalogInventory(catalogSvc),
		orderapp.WithIdempotency(ordermem.NewIdempotencyStore()))

	ts.router = NewRouter(Deps{
		Catalog: catalogSvc,
		Orders:  orderSvc,
		Log:     zaptest.NewLogger(t),
		Metrics: metrics.NewServerMetrics("gateway"),
		Ready:   func(context.Context) error { return ts.ready },
	})
	return ts
}

func (ts *testServer) seed(name, price string, qty int64) string {
	return ts.catalog.Put(catalogdomain.Product{
		Name:              name,
		Price:             decimal.RequireFromString(price),
		AvailableQuantity: qty,
	}).ID
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func orderBody(items ...map[string]any) map[string]any {
	return map[string]any{
		"items":        items,
		"user_address": map[string]any{"city": "Bandung", "country": "ID", "zip_code": "40111"},
	}
}

func line(productID string, qty int) map[string]any {
	return map[string]any{"product_id": productID, "bought_quantity": qty}
}

func TestHome(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"HELLO"`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", nil, requestIDHeader, "abc-123")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestProducts(t *testing.T) {
	ts := newTestServer(t)
	id := ts.seed("Keyboard", "10.5", 5)

	rec := ts.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]productResponse](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, productResponse{ID: id, Name: "Keyboard", Price: 10.5, AvailableQuantity: 5}, products[0])

	rec = ts.do(t, http.MethodGet, "/product/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[productResponse](t, rec).ID)

	rec = ts.do(t, http.MethodGet, "/product/665f1f77bcf86cd799439011", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode[map[string]any](t, rec)["detail"])
}

func TestUpdateProductQuantity(t *testing.T) {
	ts := newTestServer(t)
	id := ts.seed("Keyboard", "10", 5)

	rec := ts.do(t, http.MethodPut, "/product/"+id, map[string]any{"new_quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Product updated successfully"}`, rec.Body.String())

	p, err := ts.catalog.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, p.AvailableQuantity)

	t.Run("missing product", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/product/665f1f77bcf86cd799439011", map[string]any{"new_quantity": 3})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Product not found", decode[map[string]any](t, rec)["detail"])
	})

	t.Run("negative quantity", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/product/"+id, map[string]any{"new_quantity": -1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/product/"+id, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPlaceOrder(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seed("P1", "10", 5)

	rec := ts.do(t, http.MethodPost, "/order", orderBody(line(p1, 3)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[placeOrderResponse](t, rec)
	assert.NotEmpty(t, placed.OrderID)
	assert.Equal(t, 30.0, placed.TotalAmount)

	rec = ts.do(t, http.MethodPost, "/order", orderBody(line(p1, 4)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "INSUFFICIENT_INVENTORY", body["code"])
	assert.Contains(t, body["detail"], p1)

	rec = ts.do(t, http.MethodGet, "/order/"+placed.OrderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[orderResponse](t, rec)
	assert.Equal(t, placed.OrderID, order.ID)
	assert.Equal(t, 30.0, order.TotalAmount)
	assert.Equal(t, []orderItemPayload{{ProductID: p1, BoughtQuantity: 3}}, order.Items)

	p, err := ts.catalog.Get(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.AvailableQuantity)
}

func TestPlaceOrder_Errors(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seed("P1", "10", 5)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"unknown product", orderBody(line("665f1f77bcf86cd799439011", 1)), http.StatusUnprocessableEntity},
		{"no items", orderBody(), http.StatusBadRequest},
		{"zero quantity", orderBody(line(p1, 0)), http.StatusBadRequest},
		{"missing address", map[string]any{"items": []any{line(p1, 1)}}, http.StatusBadRequest},
		{"bad timestamp", func() map[string]any {
			b := orderBody(line(p1, 1))
			b["timestamp"] = "yesterday"
			return b
		}(), http.StatusBadRequest},
		{"negative total", func() map[string]any {
			b := orderBody(line(p1, 1))
			b["total_amount"] = -5
			return b
		}(), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/order", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	p, err := ts.catalog.Get(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.AvailableQuantity)
}

func TestPlaceOrder_AcceptsLegacyTimestampAndTotal(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seed("P1", "2.5", 5)

	b := orderBody(line(p1, 2))
	b["timestamp"] = "2024-01-02 03:04:05.123456"
	b["total_amount"] = 0.0

	rec := ts.do(t, http.MethodPost, "/order", b)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[placeOrderResponse](t, rec)
	assert.Equal(t, 5.0, placed.TotalAmount)

	rec = ts.do(t, http.MethodGet, "/order/"+placed.OrderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-02T03:04:05.123456Z", decode[orderResponse](t, rec).Timestamp)
}

func TestPlaceOrder_IdempotencyKey(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seed("P1", "1", 5)

	first := ts.do(t, http.MethodPost, "/order", orderBody(line(p1, 1)), idempotencyHeader, "retry-1")
	require.Equal(t, http.StatusCreated, first.Code)
	second := ts.do(t, http.MethodPost, "/order", orderBody(line(p1, 1)), idempotencyHeader, "retry-1")
	require.Equal(t, http.StatusCreated, second.Code)

	assert.Equal(t, decode[placeOrderResponse](t, first).OrderID, decode[placeOrderResponse](t, second).OrderID)
	assert.Equal(t, 1, ts.orders.Len())

	long := make([]byte, maxIdempotencyKeyLen+1)
	for i := range long {
		long[i] = 'k'
	}
	rec := ts.do(t, http.MethodPost, "/order", orderBody(line(p1, 1)), idempotencyHeader, string(long))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seed("P1", "1", 100)

	for i := 0; i < 12; i++ {
		rec := ts.do(t, http.MethodPost, "/order", orderBody(line(p1, 1)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := ts.do(t, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[listOrdersResponse](t, rec)
	assert.Equal(t, int64(12), page.TotalOrders)
	assert.Len(t, page.Orders, 10)

	rec = ts.do(t, http.MethodGet, "/orders?limit=5&offset=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listOrdersResponse](t, rec).Orders, 2)

	rec = ts.do(t, http.MethodGet, "/orders?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/orders?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/order/665f1f77bcf86cd799439011", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decode[map[string]any](t, rec)["detail"])
}

func TestStoreOutage(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.Fail = catalogapp.ErrStoreUnavailable

	rec := ts.do(t, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProbes(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/readyz", nil).Code)

	ts.ready = errors.New("mongo: no reachable servers")
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/readyz", nil).Code)

	ts.do(t, http.MethodGet, "/products", nil)
	rec := ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ordersvc_gateway_http_requests_total{handler="/products",status="200"} 1`)
}
