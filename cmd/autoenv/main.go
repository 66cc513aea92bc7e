package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/autoenv/internal/app"
	"github.com/MKhiriev/autoenv/internal/config"
	"github.com/MKhiriev/autoenv/internal/logger"
	"github.com/MKhiriev/autoenv/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewConsoleLogger("autoenv")

	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		config.Usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	logger.SetLevel(level)

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	autoenv, err := app.NewApp(cfg, buildInfo(), log, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	if err = autoenv.Run(ctx); err != nil {
		if errors.Is(err, app.ErrNoCommand) {
			config.Usage(os.Stderr)
		}
		log.Fatal().Err(err).Msg("autoenv run error")
	}
}

func buildInfo() models.AppBuildInfo {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}
