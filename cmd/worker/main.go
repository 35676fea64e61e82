package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airdesk/config"
	"github.com/Domenick1991/airdesk/internal/email"
	"github.com/Domenick1991/airdesk/internal/kafka"
	"github.com/Domenick1991/airdesk/internal/logger"
	"github.com/Domenick1991/airdesk/internal/payment"
	"github.com/Domenick1991/airdesk/internal/repository"
	"github.com/Domenick1991/airdesk/internal/service/booking"
	"github.com/Domenick1991/airdesk/internal/service/seats"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	logg := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logg.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	seatService := seats.NewSeatService(flightRepo, logg)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		seatService,
		payment.NewProcessor(),
		producer,
		logg,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPendingTTL(time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(logg)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logg.WithError(err).Warn("decode booking event")
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logg.WithError(err).Info("consumer stopped")
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()
	completeTicker := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer completeTicker.Stop()

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingService.ExpireStalePending(ctx)
			if err != nil {
				logg.WithError(err).Error("expire sweep failed")
				continue
			}
			if len(expired) > 0 {
				logg.WithField("count", len(expired)).Info("expired stale pending bookings")
			}
		case <-completeTicker.C:
			completed, err := bookingService.CompleteArrivedBookings(ctx)
			if err != nil {
				logg.WithError(err).Error("completion sweep failed")
				continue
			}
			if completed > 0 {
				logg.WithField("count", completed).Info("completed bookings on arrived flights")
			}
		case <-ctx.Done():
			logg.Info("shutting down worker")
			return
		}
	}
}
