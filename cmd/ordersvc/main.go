package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	catalogv1 "github.com/dwikikusuma/ordersvc/api/catalog/v1"
	orderv1 "github.com/dwikikusuma/ordersvc/api/order/v1"

	catalogapp "github.com/dwikikusuma/ordersvc/internal/catalog/app"
	cgrpc "github.com/dwikikusuma/ordersvc/internal/catalog/grpc"
	cmongo "github.com/dwikikusuma/ordersvc/internal/catalog/infra/mongo"

	orderapp "github.com/dwikikusuma/ordersvc/internal/order/app"
	ogrpc "github.com/dwikikusuma/ordersvc/internal/order/grpc"
	orderadapter "github.com/dwikikusuma/ordersvc/internal/order/infra/adapter"
	orderkafka "github.com/dwikikusuma/ordersvc/internal/order/infra/kafka"
	ordermem "github.com/dwikikusuma/ordersvc/internal/order/infra/memory"
	omongo "github.com/dwikikusuma/ordersvc/internal/order/infra/mongo"
	orderredis "github.com/dwikikusuma/ordersvc/internal/order/infra/redis"

	"github.com/dwikikusuma/ordersvc/internal/gateway"
	"github.com/dwikikusuma/ordersvc/pkg/config"
	"github.com/dwikikusuma/ordersvc/pkg/grpcjson"
	"github.com/dwikikusuma/ordersvc/pkg/logger"
	"github.com/dwikikusuma/ordersvc/pkg/metrics"
	"github.com/dwikikusuma/ordersvc/pkg/mongodb"
	"github.com/dwikikusuma/ordersvc/pkg/shutdown"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "ordersvc", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	defer func() { _ = log.Sync() }()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	client, db, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	if err != nil {
		log.Error("mongo open failed", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		_ = client.Disconnect(dctx)
	}()

	serverMetrics := metrics.NewServerMetrics("gateway")

	// Catalog
	catalogSvc := catalogapp.NewService(cmongo.NewProductRepo(db))

	// Order (adapters)
	opts := []orderapp.Option{
		orderapp.WithLogger(log.Named("order")),
		orderapp.WithMetrics(metrics.NewPlacementMetrics(serverMetrics.Registerer())),
		orderapp.WithMaxConcurrent(cfg.PricingConcurrency),
		orderapp.WithReleaseTimeout(cfg.ReleaseTimeout),
		orderapp.WithPublishTimeout(cfg.PublishTimeout),
	}
	idem, closeIdem := mustIdempotency(ctx, cfg, log)
	defer closeIdem()
	opts = append(opts, orderapp.WithIdempotency(idem))

	if len(cfg.KafkaBrokers) > 0 {
		pub := orderkafka.NewPublisher(cfg.KafkaBrokers, cfg.OrderTopic)
		defer func() { _ = pub.Close() }()
		opts = append(opts, orderapp.WithEvents(pub))
		log.Info("order events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.OrderTopic))
	}
	inventory := orderadapter.NewCatalogInventory(catalogSvc)
	orderSvc := orderapp.NewService(omongo.NewOrderRepo(db), inventory, opts...)

	// gRPC
	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("listen failed", zap.Error(err), zap.String("addr", grpcAddr))
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(grpcjson.ServerOption())
	catalogv1.RegisterCatalogServiceServer(grpcServer, cgrpc.NewServer(catalogSvc))
	orderv1.RegisterOrderServiceServer(grpcServer, ogrpc.NewServer(orderSvc))

	// HTTP
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gateway.NewRouter(gateway.Deps{
		Catalog:        catalogSvc,
		Orders:         orderSvc,
		Log:            log.Named("http"),
		Metrics:        serverMetrics,
		Ready:          func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		RequestTimeout: cfg.RequestTimeout,
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc starting", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", zap.Error(err))
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", zap.String("addr", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}

	if !shutdown.Graceful(10*time.Second, grpcServer.GracefulStop, grpcServer.Stop) {
		log.Warn("graceful stop timeout, forced stop")
	}

	wg.Wait()
	orderSvc.Drain()
	log.Info("bye")
}

// mustIdempotency uses Redis when REDIS_URL is set and an in-process store
// otherwise.
func mustIdempotency(ctx context.Context, cfg config.Config, log *zap.Logger) (orderapp.IdempotencyStore, func()) {
	if cfg.RedisURL == "" {
		log.Info("idempotency keys kept in memory")
		return ordermem.NewIdempotencyStore(), func() {}
	}

	rdb, err := orderredis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("idempotency keys kept in redis", zap.Duration("ttl", cfg.IdempotencyTTL))
	return orderredis.NewIdempotencyStore(rdb, cfg.IdempotencyTTL), func() { _ = rdb.Close() }
}
