package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/thienan2003bt/awp-user-registration-be/config"
	"github.com/thienan2003bt/awp-user-registration-be/db"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/handler"
	repo "github.com/thienan2003bt/awp-user-registration-be/internal/auth/repository/postgres"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/service"
	"github.com/thienan2003bt/awp-user-registration-be/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))).
		With("env", cfg.Env)

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Error(ctx, "migrations failed", "err", err)
		os.Exit(1)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error(ctx, "database connection failed", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	accountRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := service.NewUserService(accountRepo, tokenService)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	log.Info(ctx, "starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}
