// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/grocerydist/report"
	"github.com/jcodagnone/grocerydist/utils/textutils"
	"github.com/spf13/cobra"
)

var reportThreshold float64

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarizes the area served by every store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, g, err := computeGrid(cmd.Context())
		if err != nil {
			return err
		}

		db, err := sql.Open("duckdb", "")
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		summary, err := report.Summarize(cmd.Context(), db, g, reportThreshold)
		if err != nil {
			return fmt.Errorf("summarizing grid: %w", err)
		}

		a, b, c := strings.Repeat("─", 24), strings.Repeat("─", 6), strings.Repeat("─", 8)
		fmt.Printf("╭─%-24s─┬─%6s─┬─%8s─┬─%8s─┬─%8s─╮\n", a, b, c, c, c)
		fmt.Printf("│ %-24s │ %6s │ %8s │ %8s │ %8s │\n", "Store", "Cells", "Share", "Mean mi", "Max mi")
		fmt.Printf("├─%-24s─┼─%6s─┼─%8s─┼─%8s─┼─%8s─┤\n", a, b, c, c, c)

		for _, s := range summary.Stores {
			fmt.Printf("│ %-24.24s │ %6s │ %7.1f%% │ %8.2f │ %8.2f │\n",
				s.Store, textutils.FormatInt(int64(s.Cells)), 100*s.Share, s.MeanDistance, s.MaxDistance)
		}

		fmt.Printf("╰─%-24s─┴─%6s─┴─%8s─┴─%8s─┴─%8s─╯\n", a, b, c, c, c)

		fmt.Printf("%s of %s cells within %.1f miles of a store",
			textutils.FormatInt(int64(summary.WithinThreshold)),
			textutils.FormatInt(int64(summary.Cells)),
			summary.Threshold,
		)

		if summary.NoData > 0 {
			fmt.Printf(", %s without data", textutils.FormatInt(int64(summary.NoData)))
		}

		if summary.H3Cells > 0 {
			fmt.Printf(", spanning %s H3 cells", textutils.FormatInt(int64(summary.H3Cells)))
		}

		fmt.Println()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addGridFlags(reportCmd)
	reportCmd.Flags().Float64Var(&reportThreshold, "threshold", 1.0, "Distance in miles considered walkable")
}
