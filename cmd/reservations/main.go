package main

import (
	"inspirehub/internal/auth/token"
	"inspirehub/internal/reservations/handler"
	"inspirehub/internal/reservations/repository"
	"inspirehub/internal/reservations/service"
	"inspirehub/internal/reservations/validator"
	"inspirehub/pkg/app"
	"inspirehub/pkg/config"
	"inspirehub/pkg/events"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	verifier := initTokenManager(cfg)
	reservationService, producer := initServices(cfg)
	defer producer.Close()

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewReservationHandler(reservationService, verifier, cfg.Log))
	serverApp.Run()
}

func initTokenManager(cfg *config.Config) *token.Manager {
	manager, err := token.NewManager([]byte(cfg.JWTSecret), cfg.SessionTokenTTL, cfg.ReauthTokenTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize token manager", "error", err)
	}
	return manager
}

func initServices(cfg *config.Config) (service.ReservationService, *events.Producer) {
	producer, err := events.NewProducer(events.LoadConfig(), ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}

	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	claimRepo := repository.NewClaimRepository(cfg)
	reservationService := service.NewReservationService(
		reservationRepo,
		claimRepo,
		reservationValidator,
		producer,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, producer
}
