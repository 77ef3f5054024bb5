// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Computes the distance to the nearest store over a grid",
	Long: `Partitions the area around the city center in a regular grid and writes the
cells as GeoJSON polygons together with a table holding, for every cell id,
the distance in miles to the nearest store and its name.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, g, err := computeGrid(cmd.Context())
		if err != nil {
			return err
		}

		if err := writeResult(cfg.ResultPath(cfg.GridFile), g.WriteGeoJSON); err != nil {
			return err
		}

		return writeResult(cfg.ResultPath(cfg.DistanceFile), g.WriteDistances)
	},
}

// writeResult creates path and fills it with write.
func writeResult(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()

		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	log.Printf("Wrote %s", path)

	return nil
}

func init() {
	rootCmd.AddCommand(gridCmd)
	addGridFlags(gridCmd)
	gridCmd.Flags().StringVar(&cfg.GridFile, "grid-output", cfg.GridFile, "GeoJSON file inside the results directory")
	gridCmd.Flags().StringVar(&cfg.DistanceFile, "distances-output", cfg.DistanceFile, "CSV file inside the results directory")
}
