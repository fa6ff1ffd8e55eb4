package main

import (
	"inspirehub/internal/auth/token"
	"inspirehub/internal/contracts/handler"
	"inspirehub/internal/contracts/service"
	"inspirehub/internal/contracts/templates"
	"inspirehub/pkg/app"
	"inspirehub/pkg/client"
	"inspirehub/pkg/config"
)

const ServiceName = "contracts"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Contracts service")

	verifier := initTokenManager(cfg)
	contractService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewContractHandler(contractService, verifier, cfg.Log))
	serverApp.Run()
}

func initTokenManager(cfg *config.Config) *token.Manager {
	manager, err := token.NewManager([]byte(cfg.JWTSecret), cfg.SessionTokenTTL, cfg.ReauthTokenTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize token manager", "error", err)
	}
	return manager
}

func initServices(cfg *config.Config) service.ContractService {
	store := templates.NewFileStore(cfg.TemplateDir)
	reservationsClient := client.NewHttpClient("reservations", cfg.ReservationsBaseURL)
	fetcher := service.NewReservationFetcher(reservationsClient)
	contractService := service.NewContractService(store, fetcher, cfg)

	cfg.Log.Info("Contract service initialized",
		"template_dir", cfg.TemplateDir,
		"reservations_base_url", cfg.ReservationsBaseURL,
	)
	return contractService
}
