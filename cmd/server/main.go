package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/homiin/portal/internal/app"
	"github.com/homiin/portal/internal/pkg/config"
	"github.com/homiin/portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "homiin-portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create app")
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run app")
	}
}
