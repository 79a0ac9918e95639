package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewsnap/viewsnap/internal/cli"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Print the snapshot a request path resolves to",
	Long: `Matches the given concrete path against the last build's manifest,
exactly as the test runtime would, and writes the stored snapshot bytes
to stdout.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		kind, _ := cmd.Flags().GetString("kind")

		err = cli.RunResolve(cmd.Context(), cli.ResolveOptions{
			Config: cfg,
			Path:   args[0],
			Kind:   kind,
			Out:    os.Stdout,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("kind", "k", "", "Response kind to resolve (document or stream)")
}
