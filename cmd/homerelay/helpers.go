package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homerelay/homerelay/internal/config"
	"github.com/homerelay/homerelay/internal/core"
	"github.com/homerelay/homerelay/internal/mediaserver/jellyfin"
	"github.com/homerelay/homerelay/internal/sections"
)

// Shared terminal styles.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	styleHeader  = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")). // magenta
			MarginBottom(1)
)

// loadConfig loads and validates configuration from the given path.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildSettings maps the optional service sections of the config onto the
// flat settings the section loader consumes. Absent sections become blank
// strings, which the loader treats as unconfigured.
func buildSettings(cfg *config.Config) sections.Settings {
	var s sections.Settings
	if cfg.Jellyseerr != nil {
		s.JellyseerrURL = cfg.Jellyseerr.URL
		s.JellyseerrAPIKey = cfg.Jellyseerr.APIKey
	}
	if cfg.Radarr != nil {
		s.RadarrURL = cfg.Radarr.URL
		s.RadarrAPIKey = cfg.Radarr.APIKey
	}
	if cfg.Sonarr != nil {
		s.SonarrURL = cfg.Sonarr.URL
		s.SonarrAPIKey = cfg.Sonarr.APIKey
	}
	return s
}

// initLoader creates the section loader from configuration.
func initLoader(cfg *config.Config, logger *slog.Logger) *sections.Service {
	svc := sections.New(buildSettings(cfg), logger)
	if svc.IsConfigured() {
		logger.Info("section loader initialized")
	}
	return svc
}

// initMediaServer creates a Jellyfin client, or returns nil when no media
// server is configured.
func initMediaServer(cfg *config.Config, logger *slog.Logger) core.MediaServer {
	if cfg.Jellyfin == nil || cfg.Jellyfin.URL == "" {
		return nil
	}
	logger.Info("media server initialized", slog.String("url", sanitizeURL(cfg.Jellyfin.URL)))
	return jellyfin.New(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey, logger)
}

// sanitizeURL strips credentials and query parameters from a URL for logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// printSections renders loaded sections to stdout. The caller has already
// checked that the loader is configured.
func printSections(secs []core.Section) {
	if len(secs) == 0 {
		fmt.Println(styleDim.Render("No sections available. Are your services reachable?"))
		return
	}
	for _, sec := range secs {
		fmt.Println(styleHeader.Render(sec.DisplayTitle()))
		for i, item := range sec.Items {
			printItem(i+1, item)
		}
		fmt.Println()
	}
}

// printItem renders one numbered section entry.
func printItem(index int, item core.SectionItem) {
	name := lipgloss.NewStyle().Bold(true).Render(item.Name)
	line := fmt.Sprintf("%s %s", styleDim.Render(fmt.Sprintf("%2d.", index)), name)
	if item.Year > 0 {
		line += styleDim.Render(fmt.Sprintf(" (%d)", item.Year))
	}
	if badge := itemBadge(item); badge != "" {
		line += "  " + badge
	}
	fmt.Println(line)
}

// itemBadge returns a short status marker for a section item.
func itemBadge(item core.SectionItem) string {
	switch {
	case item.InLibrary:
		return styleSuccess.Render("in library")
	case item.Requestable:
		return styleInfo.Render(requestHint(item))
	default:
		return styleDim.Render("requested")
	}
}

// requestHint spells out the request command for an item.
func requestHint(item core.SectionItem) string {
	kind := "movie"
	if item.MediaType == core.MediaTypeShow {
		kind = "show"
	}
	return fmt.Sprintf("request with: homerelay request %s %s", kind, item.ID)
}

// parseMediaType maps a CLI argument to a media type.
func parseMediaType(arg string) (core.MediaType, error) {
	switch strings.ToLower(arg) {
	case "movie":
		return core.MediaTypeMovie, nil
	case "show", "tv", "series":
		return core.MediaTypeShow, nil
	default:
		return core.MediaTypeUnknown, fmt.Errorf("unknown media type %q: use \"movie\" or \"show\"", arg)
	}
}
