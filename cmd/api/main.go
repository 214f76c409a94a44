package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"godescribe/internal"
	"godescribe/internal/api"
	"godescribe/internal/config"
)

// version is injected at build time
var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	defer logger.Sync()

	server, err := api.NewServerFromConfig(cfg, version, logger)
	if err != nil {
		logger.Error("Failed to build server: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
