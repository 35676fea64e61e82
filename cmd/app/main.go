package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airdesk/config"
	"github.com/Domenick1991/airdesk/internal/bootstrap"
	"github.com/Domenick1991/airdesk/internal/cache"
	"github.com/Domenick1991/airdesk/internal/kafka"
	"github.com/Domenick1991/airdesk/internal/logger"
	"github.com/Domenick1991/airdesk/internal/payment"
	"github.com/Domenick1991/airdesk/internal/repository"
	"github.com/Domenick1991/airdesk/internal/service/booking"
	"github.com/Domenick1991/airdesk/internal/service/flights"
	"github.com/Domenick1991/airdesk/internal/service/seats"
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

	logg := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logg.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSecs)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	seatService := seats.NewSeatService(flightRepo, logg)
	flightService := flights.NewFlightService(flightRepo, redisCache, logg)
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

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		logg.WithError(err).Fatal("server error")
	}
}
