package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/bootstrap"
	"github.com/Domenick1991/tripbooking/internal/cache"
	"github.com/Domenick1991/tripbooking/internal/gateway"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/Domenick1991/tripbooking/internal/logger"
	"github.com/Domenick1991/tripbooking/internal/operator"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/Domenick1991/tripbooking/internal/service/payment"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger := logger.New(cfg.Environment)
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.TripCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	gatewayClient := gateway.NewClient(cfg.Gateway.URL, time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second)
	operatorClient := operator.NewClient(cfg.Operator.BaseURL, time.Duration(cfg.Operator.TimeoutSeconds)*time.Second)

	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)

	paymentService := payment.NewPaymentService(paymentRepo, gatewayClient, zapLogger)
	bookingService := booking.NewBookingService(
		bookingRepo,
		paymentRepo,
		catalogRepo,
		paymentService,
		operatorClient,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.TripHoldTTLMinutes)*time.Minute,
		zapLogger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithStuckAfter(time.Duration(cfg.Worker.StuckAfterMinutes)*time.Minute),
	)

	if err := bootstrap.Run(ctx, cfg, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
