package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/event"
	"github.com/tuanvumaihuynh/bizdesk/internal/http"
	"github.com/tuanvumaihuynh/bizdesk/internal/log"
	"github.com/tuanvumaihuynh/bizdesk/internal/relay"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/mq"
	"github.com/tuanvumaihuynh/bizdesk/internal/telemetry"
	"github.com/tuanvumaihuynh/bizdesk/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC
	decimal.MarshalJSONWithoutQuotes = true

	type Config struct {
		Log       config.Log
		Postgres  config.Postgres
		HTTP      config.HTTP
		Relay     config.Relay
		Kafka     config.Kafka
		Otel      config.Otel
		Dashboard config.Dashboard
		Company   config.Company
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	clientRepository := repository.NewClientRepository(dbClient)
	productRepository := repository.NewProductRepository(dbClient)
	orderRepository := repository.NewOrderRepository(dbClient)
	userRepository := repository.NewUserRepository(dbClient)
	dashboardRepository := repository.NewDashboardRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	services := http.Services{
		Client:    service.NewClientService(dbClient, clientRepository, outboxMsgRepository),
		Product:   service.NewProductService(dbClient, productRepository, outboxMsgRepository),
		Order:     service.NewOrderService(dbClient, cfg.Company, orderRepository, clientRepository),
		User:      service.NewUserService(dbClient, userRepository),
		Dashboard: service.NewDashboardService(dashboardRepository, cfg.Dashboard.LowStockThreshold),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpService, err := http.New(cfg.HTTP, logger, registry, dbClient, services)
	if err != nil {
		return fmt.Errorf("error creating http service: %w", err)
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	if cfg.Kafka.Enabled {
		kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()

		kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("error creating kafka consumer: %w", err)
		}
		defer kafkaConsumer.Close()

		eventService := event.New(logger, kafkaConsumer, cfg.Dashboard.LowStockThreshold)
		cleanupEvents, err := eventService.Run(ctx)
		if err != nil {
			return fmt.Errorf("error running event service: %w", err)
		}
		logger.InfoContext(ctx, "event service started")

		wg.Go(func() {
			<-interruptChan

			logger.InfoContext(ctx, "event service is shutting down")
			cleanupEvents()

			logger.InfoContext(ctx, "event service is stopped")
		})

		wg.Go(func() {
			svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
			cleanup := svc.Run(ctx)
			logger.InfoContext(ctx, "relay service started")

			<-interruptChan

			logger.InfoContext(ctx, "relay service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "relay service is stopped")
		})
	} else {
		logger.WarnContext(ctx, "kafka disabled, outbox messages will wait for a relay")
	}

	cleanupHTTP, err := httpService.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}
	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	wg.Go(func() {
		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanupHTTP(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
