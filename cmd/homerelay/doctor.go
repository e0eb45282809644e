package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
	"github.com/homerelay/homerelay/internal/httpclient"
)

const doctorTimeout = 10 * time.Second

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity to configured services",
		Long:  "Probe every configured service and report whether it is reachable and accepts the stored API key.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDoctor()
		},
	}
}

// probeResult is one row of the doctor report.
type probeResult struct {
	name string
	err  error
}

func runDoctor() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, doctorTimeout)
	defer cancelTimeout()

	client := httpclient.New(httpclient.SingleAttempt(), logger)

	var results []probeResult
	if cfg.Jellyseerr != nil && cfg.Jellyseerr.URL != "" {
		err := probeService(ctx, client, cfg.Jellyseerr, "api/v1/status")
		results = append(results, probeResult{name: "Jellyseerr", err: err})
	}
	if cfg.Radarr != nil && cfg.Radarr.URL != "" {
		err := probeService(ctx, client, cfg.Radarr, "api/v3/system/status")
		results = append(results, probeResult{name: "Radarr", err: err})
	}
	if cfg.Sonarr != nil && cfg.Sonarr.URL != "" {
		err := probeService(ctx, client, cfg.Sonarr, "api/v3/system/status")
		results = append(results, probeResult{name: "Sonarr", err: err})
	}
	if media := initMediaServer(cfg, logger); media != nil {
		results = append(results, probeResult{name: "Jellyfin", err: media.Ping(ctx)})
	}

	if len(results) == 0 {
		fmt.Println(styleDim.Render("No services configured. Nothing to check."))
		return nil
	}

	fmt.Println(styleHeader.Render("Service checks"))
	failed := 0
	for _, r := range results {
		printProbe(r)
		if r.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d services unreachable", failed, len(results))
	}
	return nil
}

// probeService issues an authenticated GET against a service status endpoint
// and treats any 2xx response as healthy.
func probeService(ctx context.Context, client *httpclient.Client, svc *config.ServiceConfig, statusPath string) error {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(svc.URL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("invalid url %q", sanitizeURL(svc.URL))
	}

	u := base.JoinPath(statusPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", svc.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// printProbe renders one check outcome.
func printProbe(r probeResult) {
	if r.err != nil {
		fmt.Printf("%s %s: %s\n", styleError.Render("✗"), r.name, styleDim.Render(r.err.Error()))
		return
	}
	fmt.Printf("%s %s: %s\n", styleSuccess.Render("✓"), r.name, styleDim.Render("ok"))
}
