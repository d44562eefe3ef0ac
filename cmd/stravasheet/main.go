// Package main is the entry point for the stravasheet CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stravasheet/internal/backend/googlesheets"
	"stravasheet/internal/backend/strava"
	"stravasheet/internal/cli"
	"stravasheet/internal/commands"
	"stravasheet/internal/config"
	"stravasheet/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factories := cli.Factories{
		Source: func(ctx context.Context, cfg *config.Config) (service.ActivitySource, error) {
			return strava.New(ctx, cfg)
		},
		Sheet: func(ctx context.Context, cfg *config.Config) (service.Sheet, error) {
			return googlesheets.New(ctx, cfg)
		},
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factories)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
