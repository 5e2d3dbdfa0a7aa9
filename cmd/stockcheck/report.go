package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/stockcheck/internal/presentation/tui"
	"github.com/aretw0/stockcheck/pkg/report"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the current stock report",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		rep, err := rt.App.Report(cmd.Context())
		if err != nil {
			return err
		}

		out := report.Text(rep)
		plain, _ := cmd.Flags().GetBool("plain")
		if !plain && tui.IsTerminal(os.Stdout) {
			render, err := tui.NewRenderer()
			if err == nil {
				out, err = render(rep)
			}
			if err != nil {
				logger.Warn("Renderer failed, using plain text", "err", err)
				out = report.Text(rep)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("plain", false, "Print the chat text even on a terminal")
}
