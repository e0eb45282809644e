package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
)

func newHomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the home screen sections",
		Long: "Load and display every home section: discovery feeds and pending\n" +
			"requests from Jellyseerr plus upcoming calendars from Radarr and Sonarr.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHome()
		},
	}
}

func runHome() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	loader := initLoader(cfg, logger)
	if !loader.IsConfigured() {
		fmt.Println(styleDim.Render("No services configured. Set jellyseerr, radarr or sonarr in the config file."))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	printSections(loader.LoadHomeSections(ctx))
	return nil
}
