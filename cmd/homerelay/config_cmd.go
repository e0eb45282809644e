package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
)

// newConfigCmd returns the "config" subcommand group for configuration management.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(newConfigValidateCmd(), newConfigShowCmd())
	return cmd
}

// newConfigValidateCmd returns the "config validate" subcommand that checks config file validity.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			fmt.Println(styleSuccess.Render("✓ Configuration is valid"))
			return nil
		},
	}
}

// newConfigShowCmd returns the "config show" subcommand that prints the
// effective configuration with secrets redacted.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			fmt.Println(styleHeader.Render("Configuration"))
			printService("jellyseerr", cfg.Jellyseerr)
			printService("radarr", cfg.Radarr)
			printService("sonarr", cfg.Sonarr)
			printService("jellyfin", cfg.Jellyfin)

			if cfg.Telegram != nil {
				fmt.Printf("telegram:   %s, %d allowed user(s)\n",
					keyState(cfg.Telegram.BotToken != "", "token set", "token missing"),
					len(cfg.Telegram.AllowedUserIDs))
			} else {
				fmt.Printf("telegram:   %s\n", styleDim.Render("not configured"))
			}

			if cfg.Webhook != nil {
				fmt.Printf("webhook:    port %d, %s\n", cfg.Webhook.Port,
					keyState(cfg.Webhook.Secret != "", "secret set", "no secret"))
			} else {
				fmt.Printf("webhook:    %s\n", styleDim.Render("not configured"))
			}

			fmt.Printf("log level:  %s\n", cfg.App.LogLevel)
			return nil
		},
	}
}

// printService renders one service line with its API key state.
func printService(name string, svc *config.ServiceConfig) {
	if svc == nil || svc.URL == "" {
		fmt.Printf("%-11s %s\n", name+":", styleDim.Render("not configured"))
		return
	}
	fmt.Printf("%-11s %s, %s\n", name+":", sanitizeURL(svc.URL),
		keyState(svc.APIKey != "", "api key set", "no api key"))
}

// keyState renders a green or dim marker for a boolean state.
func keyState(ok bool, yes, no string) string {
	if ok {
		return styleSuccess.Render(yes)
	}
	return styleDim.Render(no)
}
