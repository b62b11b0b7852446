package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/veritrace/qrbatch-backend/api/controllers"
	"github.com/veritrace/qrbatch-backend/api/routes"
	"github.com/veritrace/qrbatch-backend/internal/batches"
	"github.com/veritrace/qrbatch-backend/internal/export"
	"github.com/veritrace/qrbatch-backend/internal/orders"
	"github.com/veritrace/qrbatch-backend/internal/packaging"
	"github.com/veritrace/qrbatch-backend/internal/products"
	"github.com/veritrace/qrbatch-backend/internal/tenants"
	"github.com/veritrace/qrbatch-backend/pkg/config"
	"github.com/veritrace/qrbatch-backend/pkg/db"
	"github.com/veritrace/qrbatch-backend/pkg/idgen"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
	"github.com/veritrace/qrbatch-backend/pkg/metrics"
	"github.com/veritrace/qrbatch-backend/pkg/migrate"
	"github.com/veritrace/qrbatch-backend/pkg/outbox"
	"github.com/veritrace/qrbatch-backend/pkg/redis"
	"github.com/veritrace/qrbatch-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	batchMetrics := metrics.NewBatchMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	exportPipeline, err := export.NewPipeline(gcsClient, logg, batchMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build export pipeline", err)
		os.Exit(1)
	}

	tenantService, err := tenants.NewService(tenants.NewRepository(dbClient.DB()), cfg.JWT, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create tenant service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	packagingRepo := packaging.NewRepository(dbClient.DB())
	packagingService, err := packaging.NewService(packagingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create packaging service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Products: products.NewRepository(dbClient.DB()),
		Tx:       dbClient,
		Outbox:   outboxService,
		Store:    gcsClient,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	batchService, err := batches.NewService(batches.ServiceParams{
		Repo:      batches.NewRepository(dbClient.DB()),
		Orders:    ordersRepo,
		Packaging: packagingRepo,
		Tx:        dbClient,
		Outbox:    outboxService,
		Generator: idgen.New(),
		Exporter:  exportPipeline,
		Metrics:   batchMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create batch service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(
		cfg,
		logg,
		redisClient,
		map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
			"gcs":      gcsClient,
		},
		registry,
		routes.Services{
			Tenants:   tenantService,
			Batches:   batchService,
			Orders:    orderService,
			Products:  productService,
			Packaging: packagingService,
		},
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown error", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
