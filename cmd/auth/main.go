package main

import (
	"inspirehub/internal/auth/handler"
	"inspirehub/internal/auth/repository"
	"inspirehub/internal/auth/service"
	"inspirehub/internal/auth/token"
	"inspirehub/pkg/app"
	"inspirehub/pkg/config"
)

const ServiceName = "auth"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Auth service")

	tokens := initTokenManager(cfg)
	authService := initServices(cfg, tokens)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewAuthHandler(authService, tokens, cfg.Log))
	serverApp.Run()
}

func initTokenManager(cfg *config.Config) *token.Manager {
	manager, err := token.NewManager([]byte(cfg.JWTSecret), cfg.SessionTokenTTL, cfg.ReauthTokenTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize token manager", "error", err)
	}
	return manager
}

func initServices(cfg *config.Config, tokens *token.Manager) service.AuthService {
	userRepo := repository.NewMongoUserRepository(cfg)
	authService := service.NewAuthService(userRepo, tokens, cfg)

	cfg.Log.Info("Auth service initialized", "database", cfg.MongoDatabaseName)
	return authService
}
