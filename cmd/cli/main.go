package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cpphub/hubclient/internal/client/cli"
	"github.com/cpphub/hubclient/internal/client/config"
	"github.com/cpphub/hubclient/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, closer, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "error starting client", "error", err)
		return
	}

	app.Run(ctx)

}
