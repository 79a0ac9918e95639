package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewsnap/viewsnap/internal/cli"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the snapshots the last build recorded",
	Long: `Prints every manifest entry in declaration order, which is also the
order patterns are tried when a path is resolved.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := cli.RunList(cli.ListOptions{Config: cfg, Out: os.Stdout}); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
