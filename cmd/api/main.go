package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nvalenzo/threadhaus-backend/api/routes"
	"github.com/nvalenzo/threadhaus-backend/internal/cart"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	"github.com/nvalenzo/threadhaus-backend/internal/checkout"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/internal/orders"
	"github.com/nvalenzo/threadhaus-backend/internal/reviews"
	"github.com/nvalenzo/threadhaus-backend/internal/sales"
	"github.com/nvalenzo/threadhaus-backend/internal/users"
	"github.com/nvalenzo/threadhaus-backend/pkg/auth/session"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/nvalenzo/threadhaus-backend/pkg/metrics"
	"github.com/nvalenzo/threadhaus-backend/pkg/redis"
)

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

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	gatewayClient, err := gateway.NewClient(cfg.Gateway, gateway.WithMetrics(httpMetrics))
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(gatewayClient, sessionManager, cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	catalogStore := catalog.NewStore()
	catalogService, err := catalog.NewService(catalogStore, gatewayClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(gatewayClient, cfg.Analytics)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(redisClient, catalogService, cfg.Cart)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(gatewayClient, catalogService, catalogService, salesService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartService, ordersService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(gatewayClient, catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Dependencies{
		Config:        cfg,
		Logger:        logg,
		Sessions:      sessionManager,
		Limiter:       redisClient,
		Metrics:       httpMetrics,
		RedisPinger:   redisClient,
		GatewayPinger: gatewayClient,
		Users:         usersService,
		Catalog:       catalogService,
		Sales:         salesService,
		Cart:          cartService,
		Checkout:      checkoutService,
		Orders:        ordersService,
		Reviews:       reviewsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
