package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Inspect or correct stored values",
}

var valuesListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored values in catalog order",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		snapshot, err := rt.App.Values().Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVALUE")
		for _, name := range rt.App.Catalog().Names() {
			fmt.Fprintf(w, "%s\t%s\n", name, snapshot[name])
		}
		return w.Flush()
	},
}

var valuesSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Overwrite the stored value of a catalog item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		name, value := args[0], args[1]
		if _, err := rt.App.Catalog().Lookup(name); err != nil {
			return err
		}
		if err := rt.App.Values().Set(cmd.Context(), name, value); err != nil {
			return err
		}
		logger.Info("Value updated", "item", name, "value", value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(valuesCmd)
	valuesCmd.AddCommand(valuesListCmd)
	valuesCmd.AddCommand(valuesSetCmd)
}
