package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/stockcheck"
	"github.com/aretw0/stockcheck/internal/presentation/tui"
	"github.com/aretw0/stockcheck/pkg/runner"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a check-in conversation in the terminal",
	Long:  `Starts an interactive conversation on stdin/stdout. Type /count to start a check-in, exit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		rt, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		id, _ := cmd.Flags().GetString("id")
		opts := []runner.Option{
			runner.WithConversationID(id),
			runner.WithLogger(logger),
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(stockcheck.Version))
			render, err := tui.NewRenderer()
			if err != nil {
				logger.Warn("Styled reports disabled", "err", err)
			} else {
				opts = append(opts, runner.WithRenderer(render))
			}
		} else {
			opts = append(opts, runner.WithPrompt(""))
		}

		r := runner.New(os.Stdin, os.Stdout, opts...)
		if err := r.Run(ctx, rt.App); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("id", runner.DefaultConversationID, "Conversation ID to resume")

	// Run is the default when no command is given.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
