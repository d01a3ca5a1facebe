package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/app/background"
	"github.com/LavaJover/shvark-bonus-service/internal/app/setup"
	"github.com/LavaJover/shvark-bonus-service/internal/config"
	httpDelivery "github.com/LavaJover/shvark-bonus-service/internal/delivery/http"
	"github.com/LavaJover/shvark-bonus-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/migrate"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	cfg := deps.Config

	if migrationsPath := os.Getenv("BONUS_MIGRATIONS_PATH"); migrationsPath != "" {
		if err := migrate.RunMigrations(deps.DB, migrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		log.Fatalf("failed to load timezone %q: %v", cfg.Engine.Timezone, err)
	}

	logger := setupLogger(cfg.LogConfig)

	usecases, err := setup.InitializeUsecases(deps, logger, loc)
	if err != nil {
		log.Fatalf("failed to initialize usecases: %v", err)
	}

	tasks := background.NewBackgroundTasks(
		usecases.BonusEngine,
		deps.RunLogger,
		cfg.Engine.Companies,
		cfg.Engine.RunInterval,
	)
	tasks.StartAll(context.Background())

	router := httpDelivery.NewRouter(
		handlers.NewRuleHandler(usecases.RuleUsecase),
		handlers.NewEngineHandler(usecases.BonusEngine, deps.RunLogger),
		handlers.NewReportHandler(deps.Repositories.AwardRepo, deps.Repositories.ProgressRepo),
	)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("HTTP server started on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
