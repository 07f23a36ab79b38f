package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/cache"
	"github.com/Domenick1991/tripbooking/internal/email"
	"github.com/Domenick1991/tripbooking/internal/gateway"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/Domenick1991/tripbooking/internal/logger"
	"github.com/Domenick1991/tripbooking/internal/operator"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/Domenick1991/tripbooking/internal/service/payment"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.TripCacheTTLSeconds)*time.Second)

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(zapLogger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				zapLogger.Warn("decode notification event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			zapLogger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.NotifySweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			notified, err := bookingService.NotifyStuckBookings(ctx)
			if err != nil {
				zapLogger.Error("notify stuck bookings", zap.Error(err))
				continue
			}
			if len(notified) > 0 {
				zapLogger.Info("re-notified stuck bookings", zap.Int("count", len(notified)))
			}
		case s := <-sig:
			zapLogger.Info("shutting down", zap.String("signal", s.String()))
			return
		}
	}
}
