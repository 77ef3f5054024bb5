// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package config holds the parameters shared by the grocerydist commands.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jcodagnone/grocerydist/spatial"
)

// Config describes the area, the grid and the map of a run.
type Config struct {
	// Center of the area of interest.
	CityCenter spatial.Point
	// Degrees from the center to each edge of the area.
	Offsets spatial.Offsets

	// Distance range in miles covered by the color scale.
	MinVal float64
	MaxVal float64

	// Cells per axis.
	NGrid int
	// Discrete colors of the scale.
	NColor int
	// Palette interpolated by the scale, low to high.
	Colors []string

	// Initial map zoom.
	Zoom int
	// Base map tiles.
	TileURL         string
	TileAttribution string
	TileName        string

	// Distance anchor of every cell: corner or centroid.
	Anchor string
	// H3 resolution of the cell tags, 0 disables them.
	H3Resolution int
	// Goroutines computing the grid, 0 means one per CPU.
	MaxProcs int

	DataDir      string
	ResultsDir   string
	AddressFile  string
	StoreFile    string
	BoundaryFile string
	MapFile      string
	GridFile     string
	DistanceFile string
}

// Default returns the configuration for Richmond, Indiana.
func Default() *Config {
	return &Config{
		CityCenter: spatial.Point{Lat: 39.8289, Lng: -84.8902},
		Offsets: spatial.Offsets{
			Top:    0.055,
			Bottom: 0.035,
			Left:   0.075,
			Right:  0.075,
		},
		MinVal: 0.0,
		MaxVal: 3.0,
		NGrid:  50,
		NColor: 12,
		Colors: []string{"g", "y", "r"},
		Zoom:   13,

		TileURL:         "https://tiles.stadiamaps.com/tiles/stamen_toner/{z}/{x}/{y}{r}.png",
		TileAttribution: `&copy; <a href="https://stadiamaps.com/">Stadia Maps</a> &copy; <a href="https://stamen.com/">Stamen Design</a> &copy; <a href="https://openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		TileName:        "Stamen Toner",

		Anchor: "corner",

		DataDir:      "data",
		ResultsDir:   "results",
		AddressFile:  "grocery_stores.csv",
		StoreFile:    "grocery_stores_with_latlng.csv",
		BoundaryFile: "richmond.geojson",
		MapFile:      "distance_to_stores.html",
		GridFile:     "grid.geojson",
		DistanceFile: "distances.csv",
	}
}

// Validate checks the configuration, reporting every problem found.
func (c *Config) Validate() error {
	var errs []error

	if err := c.CityCenter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("city center: %w", err))
	}

	for name, v := range map[string]float64{
		"top":    c.Offsets.Top,
		"bottom": c.Offsets.Bottom,
		"left":   c.Offsets.Left,
		"right":  c.Offsets.Right,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s offset can't be negative (got: %g)", name, v))
		}
	}

	if !(c.MinVal < c.MaxVal) {
		errs = append(errs, fmt.Errorf("min value must be lower than max value (got: %g, %g)", c.MinVal, c.MaxVal))
	}

	if c.NGrid < 1 {
		errs = append(errs, fmt.Errorf("grid must have at least 1 cell per axis (got: %d)", c.NGrid))
	}

	if c.NColor < 2 {
		errs = append(errs, fmt.Errorf("color scale needs at least 2 steps (got: %d)", c.NColor))
	}

	if len(c.Colors) < 2 {
		errs = append(errs, fmt.Errorf("palette needs at least 2 colors (got: %d)", len(c.Colors)))
	}

	if c.H3Resolution < 0 || c.H3Resolution > 15 {
		errs = append(errs, fmt.Errorf("h3 resolution must be between 0 and 15 (got: %d)", c.H3Resolution))
	}

	if c.MaxProcs < 0 {
		errs = append(errs, errors.New("max procs can't be negative"))
	}

	if len(errs) == 0 {
		if err := c.BoundingBox().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bounding box: %w", err))
		}
	}

	return errors.Join(errs...)
}

// BoundingBox is the area covered by the grid.
func (c *Config) BoundingBox() spatial.BoundingBox {
	return spatial.NewBoundingBox(c.CityCenter, c.Offsets)
}

// DataPath resolves name inside the data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.DataDir, name)
}

// ResultPath resolves name inside the results directory.
func (c *Config) ResultPath(name string) string {
	return filepath.Join(c.ResultsDir, name)
}
