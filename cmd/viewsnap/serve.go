package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	snaphttp "github.com/viewsnap/viewsnap/internal/adapters/http"
	"github.com/viewsnap/viewsnap/internal/cli"
	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/matcher"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve built snapshots over HTTP for browser preview",
	Long: `Starts a preview server answering every GET from the snapshot store,
resolving paths through the same matcher the test runtime uses.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Addr = addr
		}
		logger := newLogger(cmd)

		manifest, err := builder.LoadManifest(cfg.SnapshotPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		m, err := matcher.FromManifest(manifest)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		store, closeStore, err := cli.NewStore(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		handler := snaphttp.NewHandler(m, store, snaphttp.WithLogger(logger))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Serving %d snapshot(s) on %s\n", len(manifest.Entries), cfg.Addr)
		if err := snaphttp.ListenAndServe(ctx, cfg.Addr, handler, logger); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides config)")
}
