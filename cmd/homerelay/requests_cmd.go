package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
	"github.com/homerelay/homerelay/internal/core"
)

func newRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "Show your pending media requests",
		Long:  "Load and display the request broker's view of your submitted requests.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRequests()
		},
	}
}

func runRequests() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	loader := initLoader(cfg, logger)
	if !loader.IsConfigured() {
		fmt.Println(styleDim.Render("No services configured. Set jellyseerr in the config file."))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, sec := range loader.LoadHomeSections(ctx) {
		if sec.Type == core.SectionMyRequests {
			printSections([]core.Section{sec})
			return nil
		}
	}
	fmt.Println(styleDim.Render("No pending requests."))
	return nil
}
