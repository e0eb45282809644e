package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "homerelay",
		Short: "Media discovery hub for your home server",
		Long: "HomeRelay aggregates discovery and calendar feeds from Jellyseerr,\n" +
			"Radarr and Sonarr into unified sections, and lets you request media\n" +
			"from the terminal, Telegram, or an MCP client.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/homerelay.yaml", "path to configuration file")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newHomeCmd(),
		newDiscoverCmd(),
		newBrowseCmd(),
		newRequestsCmd(),
		newRequestCmd(),
		newDoctorCmd(),
		newBotCmd(),
		newMCPServeCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("HomeRelay v%s\n", version)
		},
	}
}
