package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/upnext/internal/services"
	"github.com/desertthunder/upnext/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config, err := shared.LoadConfig("config.toml")
	if err != nil {
		if !errors.Is(err, shared.ErrMissingConfig) {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
		config = shared.DefaultConfig()
	}

	if err := shared.ApplyEnv(config, os.Getenv); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}
	shared.ConfigureLogger(logger, config.Log)

	client := &http.Client{Timeout: config.HTTP.Timeout()}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		Catalogs:   services.NewCatalogs(config, client, logger),
		HTTPClient: client,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "upnext",
		Usage:    "Track upcoming movies, video games, board games & books",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
