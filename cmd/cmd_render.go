// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcodagnone/grocerydist/colormap"
	"github.com/jcodagnone/grocerydist/grid"
	"github.com/jcodagnone/grocerydist/render"
	"github.com/jcodagnone/grocerydist/store"
	"github.com/spf13/cobra"
)

var renderOptions struct {
	WriteGrid bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draws the distance map",
	Long: `Computes the distance grid and draws it over a base map, together with the
city boundary and a marker for every store. The result is a standalone HTML
page in the results directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, g, _, err := buildPage(cmd.Context())
		if err != nil {
			return err
		}

		if renderOptions.WriteGrid {
			if err := writeResult(cfg.ResultPath(cfg.GridFile), g.WriteGeoJSON); err != nil {
				return err
			}

			if err := writeResult(cfg.ResultPath(cfg.DistanceFile), g.WriteDistances); err != nil {
				return err
			}
		}

		output := cfg.ResultPath(cfg.MapFile)
		if err := render.Save(output, page); err != nil {
			return err
		}

		log.Printf("Wrote %s", output)

		return nil
	},
}

// buildPage runs the whole pipeline up to the map page.
func buildPage(ctx context.Context) (*render.Page, *grid.Grid, []store.Store, error) {
	cmap, err := colormap.New(cfg.Colors, cfg.MinVal, cfg.MaxVal, cfg.NColor)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building color scale: %w", err)
	}

	boundary, err := render.LoadBoundary(cfg.DataPath(cfg.BoundaryFile))
	if err != nil {
		return nil, nil, nil, err
	}

	stores, g, err := computeGrid(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	markers, err := render.BuildMarkers(stores, cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}

	return render.NewPage(cfg, g, cmap, boundary, markers), g, stores, nil
}

func addMapFlags(c *cobra.Command) {
	f := c.Flags()
	f.IntVar(&cfg.Zoom, "zoom", cfg.Zoom, "Initial zoom of the map")
	f.StringVar(&cfg.TileURL, "tiles", cfg.TileURL, "URL template of the base map tiles")
	f.StringVar(&cfg.TileAttribution, "tiles-attribution", cfg.TileAttribution, "Attribution of the base map tiles")
	f.StringVar(&cfg.TileName, "tiles-name", cfg.TileName, "Name of the base map in the layer control")
	f.StringVar(&cfg.BoundaryFile, "boundary", cfg.BoundaryFile, "City boundary GeoJSON inside the data directory")
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addGridFlags(renderCmd)
	addColorFlags(renderCmd)
	addMapFlags(renderCmd)
	renderCmd.Flags().StringVar(&cfg.MapFile, "output", cfg.MapFile, "HTML file inside the results directory")
	renderCmd.Flags().BoolVar(&renderOptions.WriteGrid, "write-grid", false, "Also write the grid GeoJSON and the distance table")
}
