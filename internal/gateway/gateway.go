// Package gateway serves the catalog and order services over HTTP.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	catalogapp "github.com/dwikikusuma/ordersvc/internal/catalog/app"
	orderapp "github.com/dwikikusuma/ordersvc/internal/order/app"
	"github.com/dwikikusuma/ordersvc/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLen = 255

	defaultRequestTimeout = 5 * time.Second
)

type Deps struct {
	Catalog *catalogapp.Service
	Orders  *orderapp.Service
	Log     *zap.Logger
	Metrics *metrics.ServerMetrics
	// Ready reports whether backing stores answer; nil means always ready.
	Ready          func(ctx context.Context) error
	RequestTimeout time.Duration
}

type Handler struct {
	catalog *catalogapp.Service
	orders  *orderapp.Service
	log     *zap.Logger
	ready   func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = defaultRequestTimeout
	}
	h := &Handler{catalog: d.Catalog, orders: d.Orders, log: d.Log, ready: d.Ready}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(d.Log))
	if d.Metrics != nil {
		r.Use(instrument(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", h.readyz)

	api := r.Group("/", deadline(d.RequestTimeout))
	api.GET("/", h.home)
	api.GET("/products", h.listProducts)
	api.GET("/product/:product_id", h.getProduct)
	api.PUT("/product/:product_id", h.updateProduct)
	api.POST("/order", h.placeOrder)
	api.GET("/orders", h.listOrders)
	api.GET("/order/:order_id", h.getOrder)

	return r
}

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, "HELLO")
}

func (h *Handler) readyz(c *gin.Context) {
	if h.ready == nil {
		c.Status(http.StatusOK)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.ready(ctx); err != nil {
		h.log.Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		writeErrorAs(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req newQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDetail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	ok, err := h.catalog.SetAvailableQuantity(c.Request.Context(), c.Param("product_id"), *req.NewQuantity)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeDetail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

func (h *Handler) placeOrder(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	if len(key) > maxIdempotencyKeyLen {
		writeDetail(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Idempotency-Key is too long")
		return
	}

	var body placeOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeDetail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	req, err := body.toDomain(key)
	if err != nil {
		writeDetail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placeOrderResponse{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount.InexactFloat64(),
	})
}

func (h *Handler) listOrders(c *gin.Context) {
	var q listOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeDetail(c, http.StatusBadRequest, "INVALID_ARGUMENT", "limit and offset must be integers")
		return
	}

	page, err := h.orders.ListOrders(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(page.Orders))
	for _, o := range page.Orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, listOrdersResponse{TotalOrders: page.Total, Orders: out})
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		writeErrorAs(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
