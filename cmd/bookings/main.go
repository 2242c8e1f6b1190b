package main

import (
	"toolrent/internal/bookings/cache"
	"toolrent/internal/bookings/events"
	"toolrent/internal/bookings/handler"
	"toolrent/internal/bookings/jobs"
	"toolrent/internal/bookings/repository"
	"toolrent/internal/bookings/service"
	"toolrent/internal/bookings/validator"
	toolsrepository "toolrent/internal/tools/repository"
	"toolrent/pkg/app"
	"toolrent/pkg/config"
	kafka_config "toolrent/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	bookingService := initServices(cfg, serverApp)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MaxBookingDays)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	toolRepo := toolsrepository.NewMongoToolRepository(cfg)

	var blockedDates cache.BlockedDatesCache = cache.Noop{}
	if cfg.Client.Redis != nil {
		blockedDates = cache.NewRedisBlockedDatesCache(cfg.Client.Redis, cfg.BlockedDatesCacheTTL)
		cfg.Log.Info("Blocked dates cache enabled", "ttl", cfg.BlockedDatesCacheTTL)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	publisher, err := events.NewPublisher(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking event publisher", "error", err)
	}
	serverApp.OnStop(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close booking event publisher", "error", err)
		}
	})

	sweeper := jobs.NewLockSweeper(lockRepo, cfg.Log, cfg.LockSweepSchedule, cfg.BookingLockTTL)
	if err := sweeper.Start(); err != nil {
		cfg.Log.Fatal("Failed to start booking lock sweeper", "error", err)
	}
	serverApp.OnStop(sweeper.Stop)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		toolRepo,
		bookingValidator,
		blockedDates,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
