package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
)

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Show the discovery sections",
		Long:  "Load and display the request broker discovery feeds for movies and shows.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDiscover()
		},
	}
}

func runDiscover() error {
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

	secs := loader.LoadDiscoverSections(ctx)
	if len(secs) == 0 {
		fmt.Println(styleDim.Render("Discovery requires a configured Jellyseerr instance."))
		return nil
	}
	printSections(secs)
	return nil
}
