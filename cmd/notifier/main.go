package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"inspirehub/internal/auth/token"
	"inspirehub/internal/notifier/mailer"
	"inspirehub/internal/notifier/service"
	"inspirehub/pkg/client"
	"inspirehub/pkg/config"
	"inspirehub/pkg/events"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Notifier service")

	tokens, err := token.NewManager([]byte(cfg.JWTSecret), cfg.SessionTokenTTL, cfg.ReauthTokenTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize token manager", "error", err)
	}

	contractsClient := client.NewHttpClient("contracts", cfg.ContractsBaseURL)
	fetcher := service.NewContractFetcher(contractsClient, tokens)

	sender := mailer.New(cfg)
	notifier := service.NewNotifierService(sender, fetcher, cfg.Log)

	consumer, err := events.NewConsumer(events.LoadConfig(), ServiceName, notifier.HandleEvent, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event consumer", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier consuming reservation events", "topic", events.TopicReservations)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Notifier shut down cleanly")
}
