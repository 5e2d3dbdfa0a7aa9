package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stockcheck"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stockcheck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stockcheck version %s\n", strings.TrimSpace(stockcheck.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
