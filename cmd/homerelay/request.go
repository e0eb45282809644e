package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
	"github.com/homerelay/homerelay/internal/core"
)

func newRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request <movie|show> <id>",
		Short: "Request a movie or show",
		Long:  "Submit a media request to the request broker by TMDB (movie) or TVDB (show) identifier.",
		Example: `  homerelay request movie 603
  homerelay request show 81189`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRequest(args[0], args[1])
		},
	}
}

func runRequest(kind, id string) error {
	mediaType, err := parseMediaType(kind)
	if err != nil {
		return err
	}
	if _, err := strconv.Atoi(id); err != nil {
		return fmt.Errorf("media id must be numeric, got %q", id)
	}

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

	item := core.SectionItem{ID: id, MediaType: mediaType}
	if !loader.RequestItem(ctx, item) {
		return fmt.Errorf("request for %s %s was not accepted", kind, id)
	}
	fmt.Println(styleSuccess.Render(fmt.Sprintf("✓ Requested %s %s", kind, id)))
	return nil
}
