package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/example/shopfront/internal/email"
	"github.com/example/shopfront/internal/infrastructure/kafka"
	"github.com/example/shopfront/internal/notification"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	// Configuration from environment variables
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "shop-events")
	consumerGroup := "email-notifier"

	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnv("SMTP_PORT", "1025")
	smtpFrom := getEnv("SMTP_FROM", "noreply@example.com")

	log.WithFields(logrus.Fields{
		"kafka": kafkaBrokers,
		"topic": kafkaTopic,
		"group": consumerGroup,
		"smtp":  smtpHost + ":" + smtpPort,
	}).Info("starting notifier")

	// Order events embed the customer contact and items, so the notifier
	// needs no store connection at all.
	emailSvc := email.NewService(smtpHost, smtpPort, smtpFrom)
	handler := notification.NewHandler(emailSvc, log)

	consumer := kafka.NewConsumer(kafkaBrokers, kafkaTopic, consumerGroup, log.WithField("component", "consumer"))
	defer consumer.Close()

	go func() {
		log.Info("consuming order events")
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("consumer stopped")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
