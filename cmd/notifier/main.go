package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"toolrent/internal/notifier"
	"toolrent/pkg/config"
	"toolrent/pkg/kafka"
	kafka_config "toolrent/pkg/kafka/config"
	kafka_middleware "toolrent/pkg/kafka/middleware"
	"toolrent/pkg/logger"
)

const ServiceName = "notifier"

func main() {
	envFile := os.Getenv(config.EnvFile)
	if envFile == "" {
		envFile = config.DefaultEnvFile
	}
	envFileErr := config.LoadEnvFile(envFile)
	log := logger.New(logger.Config{
		Level:     os.Getenv(config.EnvLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   ServiceName,
	})
	if envFileErr != nil {
		log.Warn("Failed to read env file", "error", envFileErr)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		log.Fatal("Notifier requires KAFKA_ENABLED=true")
	}
	log.Info("Kafka configuration loaded", kafkaCfg.LogAttrs()...)

	handler := notifier.NewHandler(notifier.NewLogSink(log), log)
	consumer, err := kafka.NewConsumer(kafkaCfg, kafkaCfg.BookingsTopic, handler.Handle, log)
	if err != nil {
		log.Fatal("Failed to create bookings consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Notifier started", "topic", kafkaCfg.BookingsTopic, "group_id", kafkaCfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notifier stopped")
}
