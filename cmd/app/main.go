package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/aircheckin/config"
	"github.com/Domenick1991/aircheckin/internal/bootstrap"
	"github.com/Domenick1991/aircheckin/internal/cache"
	"github.com/Domenick1991/aircheckin/internal/kafka"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/Domenick1991/aircheckin/internal/service/checkin"
	"github.com/Domenick1991/aircheckin/internal/service/overbooking"
	"github.com/Domenick1991/aircheckin/internal/service/seats"
	"github.com/Domenick1991/aircheckin/pkg/logger"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl := logger.NewLogger()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisClient := cache.NewClient(cfg.Redis)
	if err := cache.Ping(ctx, redisClient); err != nil {
		log.Fatalf("connect redis: %v", err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	seatLock := cache.NewLock(redisClient, zl)
	idempotency := cache.NewIdempotency(redisClient, cfg.Idempotency.ProcessingTTL(), cfg.Idempotency.ResponseTTL())

	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	checkInRepo := repository.NewCheckInRepository(pool)

	seatService := seats.NewSeatService(seatRepo, seatLock, seats.LockSettings{
		TTL:        cfg.SeatLock.TTL(),
		Retries:    cfg.SeatLock.Retries,
		RetryDelay: cfg.SeatLock.RetryDelay(),
	}, zl)
	overbookingService := overbooking.NewOverbookingService(flightRepo)
	checkInService := checkin.NewCheckInService(
		bookingRepo,
		flightRepo,
		checkInRepo,
		seatService,
		idempotency,
		producer,
		cfg.Kafka.CheckInEventsTopic,
		checkin.Window{HoursBefore: cfg.CheckIn.WindowHoursBefore, HoursAfter: cfg.CheckIn.WindowHoursAfter},
		zl,
		checkin.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, checkInService, seatService, overbookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
