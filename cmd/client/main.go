package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-protected-text/internal/client"
	"github.com/MKhiriev/go-protected-text/internal/config"
	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("protected-text").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("protected-text", cfg.App.LogFile, cfg.App.LogLevel)
	log.Debug().
		Str("address", cfg.Adapter.HTTPAddress).
		Dur("timeout", cfg.Adapter.RequestTimeout).
		Dur("watch_interval", cfg.Workers.WatchInterval).
		Bool("cache", cfg.Storage.DB.DSN != "").
		Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
		stop()
		os.Exit(1)
	}
}
