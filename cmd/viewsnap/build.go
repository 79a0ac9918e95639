package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewsnap/viewsnap/internal/cli"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render stale snapshots and reconcile the store",
	Long: `Loads every *.snap.yaml declaration, re-renders only the entries whose
source fingerprint changed since the last build, and removes artifacts
no declaration accounts for anymore.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if workers, _ := cmd.Flags().GetInt("workers"); cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}

		err = cli.RunBuild(cmd.Context(), cli.BuildOptions{
			Config: cfg,
			Logger: newLogger(cmd),
			Out:    os.Stdout,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().IntP("workers", "j", 0, "Number of parallel render workers")
}
