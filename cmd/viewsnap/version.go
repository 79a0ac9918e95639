package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viewsnap/viewsnap"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of viewsnap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("viewsnap version %s\n", strings.TrimSpace(viewsnap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
