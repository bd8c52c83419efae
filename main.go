package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customer-records/internal/cache"
	"github.com/umalmyha/customer-records/internal/config"
	"github.com/umalmyha/customer-records/internal/handlers"
	"github.com/umalmyha/customer-records/internal/infra"
	"github.com/umalmyha/customer-records/internal/repository"
	"github.com/umalmyha/customer-records/internal/service"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// @title       Customer records API
// @version     1.0
// @description CRUD service for customer records
// @BasePath    /
func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	logger, err := infra.Logger(cfg.LogCfg)
	if err != nil {
		logrus.Fatal(err)
	}

	ctx := context.Background()
	healthChecks := make(map[string]handlers.HealthCheck)

	var customerRps repository.CustomerRepository
	switch cfg.Storage {
	case config.StorageMongo:
		client, err := infra.Mongodb(ctx, cfg.MongoCfg)
		if err != nil {
			logger.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Errorf("failed to disconnect from mongo - %v", err)
			}
		}()

		db := client.Database(cfg.MongoCfg.Database)
		if err := repository.EnsureMongoCustomerIndexes(ctx, db); err != nil {
			logger.Fatalf("failed to create customer indexes - %v", err)
		}

		customerRps = repository.NewMongoCustomerRepository(db)
		healthChecks["mongo"] = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
	default:
		pool, err := infra.Postgresql(ctx, cfg.PostgresCfg)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()

		customerRps = repository.NewPostgresCustomerRepository(pool)
		healthChecks["postgres"] = pool.Ping
	}

	customerCache := cache.NewNoopCustomerCache()
	if cfg.RedisCfg.Addr != "" {
		client, err := infra.Redis(ctx, cfg.RedisCfg)
		if err != nil {
			logger.Fatal(err)
		}
		defer client.Close()

		customerCache = cache.NewRedisCustomerCache(client)
		healthChecks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	} else {
		logger.Info("redis address is not configured, customer cache is disabled")
	}

	customerSvc := service.NewCustomerService(customerRps, customerCache)

	app, err := infra.Router(logger, customerSvc, healthChecks)
	if err != nil {
		logger.Fatal(err)
	}

	start(app, logger, cfg.HTTPCfg)
}

func start(app *echo.Echo, logger *logrus.Logger, cfg config.HTTPCfg) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Infof("starting server on port %d", cfg.Port)
		errorCh <- app.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logger.Errorf("failed to stop server gracefully - %v", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("shutting down the server, unexpected error occurred - %v", err)
		}
	}
}
