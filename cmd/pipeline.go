// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jcodagnone/grocerydist/grid"
	"github.com/jcodagnone/grocerydist/store"
	"github.com/jcodagnone/grocerydist/utils/textutils"
	"github.com/spf13/cobra"
)

// addGridFlags binds the area and grid parameters shared by the commands
// that compute a distance grid.
func addGridFlags(c *cobra.Command) {
	f := c.Flags()
	f.Float64Var(&cfg.CityCenter.Lat, "center-lat", cfg.CityCenter.Lat, "Latitude of the city center")
	f.Float64Var(&cfg.CityCenter.Lng, "center-lng", cfg.CityCenter.Lng, "Longitude of the city center")
	f.Float64Var(&cfg.Offsets.Top, "offset-top", cfg.Offsets.Top, "Latitude added to the center")
	f.Float64Var(&cfg.Offsets.Bottom, "offset-bottom", cfg.Offsets.Bottom, "Latitude subtracted from the center")
	f.Float64Var(&cfg.Offsets.Left, "offset-left", cfg.Offsets.Left, "Longitude subtracted from the center")
	f.Float64Var(&cfg.Offsets.Right, "offset-right", cfg.Offsets.Right, "Longitude added to the center")
	f.IntVar(&cfg.NGrid, "ngrid", cfg.NGrid, "Number of cells on each axis")
	f.StringVar(&cfg.Anchor, "anchor", cfg.Anchor, "Point of each cell used to measure distances: corner or centroid")
	f.IntVar(&cfg.MaxProcs, "max-procs", cfg.MaxProcs, "Max number of goroutines computing the grid. Defaults to the number of CPUs")
	f.IntVar(&cfg.H3Resolution, "h3-resolution", cfg.H3Resolution, "Tag every cell with its H3 index at this resolution, 0 disables it")
	f.StringVar(&cfg.StoreFile, "stores", cfg.StoreFile, "Store file inside the data directory")
}

// addColorFlags binds the color scale parameters.
func addColorFlags(c *cobra.Command) {
	f := c.Flags()
	f.Float64Var(&cfg.MinVal, "min", cfg.MinVal, "Lowest distance of the color scale, in miles")
	f.Float64Var(&cfg.MaxVal, "max", cfg.MaxVal, "Highest distance of the color scale, in miles")
	f.IntVar(&cfg.NColor, "ncolor", cfg.NColor, "Number of colors of the scale")
	f.StringSliceVar(&cfg.Colors, "colors", cfg.Colors, "Palette of the scale, low to high")
}

// computeGrid loads the stores and builds the distance grid described by cfg.
func computeGrid(ctx context.Context) ([]store.Store, *grid.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	anchor, err := grid.ParseAnchor(cfg.Anchor)
	if err != nil {
		return nil, nil, err
	}

	stores, err := store.Load(cfg.DataPath(cfg.StoreFile))
	if err != nil {
		return nil, nil, fmt.Errorf("loading stores: %w", err)
	}

	start := time.Now()

	g, err := grid.Build(ctx, cfg.BoundingBox(), stores, grid.Options{
		Cells:        cfg.NGrid,
		Anchor:       anchor,
		MaxProcs:     cfg.MaxProcs,
		H3Resolution: cfg.H3Resolution,
		Progress:     true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building grid: %w", err)
	}

	log.Printf("Computed %s cells against %s stores in %v",
		textutils.FormatInt(int64(len(g.Cells))),
		textutils.FormatInt(int64(len(stores))),
		time.Since(start).Round(time.Millisecond),
	)

	return stores, g, nil
}
