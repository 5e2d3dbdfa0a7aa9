package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/stockcheck/internal/cli"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the catalog in prompt order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := cli.LoadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tMIN")
		for _, e := range cat.Order() {
			minimum := "-"
			if e.Kind == domain.KindQuantity {
				minimum = fmt.Sprintf("%g", e.Min)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Kind, minimum)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
