package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewsnap/viewsnap/internal/cli"
	"github.com/viewsnap/viewsnap/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "viewsnap",
	Short: "Viewsnap builds and serves HTML snapshots for UI tests",
	Long: `Viewsnap renders application views into content-addressed HTML
snapshots and resolves concrete request paths back to them, so UI tests
run against real markup without a live backend.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", cli.DefaultConfigFile, "Path to the project config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadConfig resolves the effective config for a command invocation.
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return cli.LoadConfig(path, cmd.Flags().Changed("config"))
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return logging.New(os.Stderr, level)
}
