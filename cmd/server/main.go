// Package main runs the kinetic-api server, which serves interactive
// physics lesson slides, drives their quizzes and records learner
// interactions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/kinetic-api/internal/config"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "", "run a database migration command (up|down|reset|status|version) and exit")
	flag.Parse()

	if err := run(*migrate); err != nil {
		log.Fatalf("kinetic-api: %v", err)
	}
}

func run(migrateCommand string) error {
	cfg, l, err := initializeApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	if migrateCommand != "" {
		defer closeDB(db, l)
		return postgres.Migrate(ctx, db, migrateCommand, l)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("session_backend", cfg.Sessions.Backend),
		slog.Bool("custom_deck", cfg.Deck.Path != ""))

	return cfg, l, nil
}
