// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	box := c.BoundingBox()
	assert.InDelta(t, 39.7939, box.LowerLeft.Lat, 1e-9)
	assert.InDelta(t, -84.9652, box.LowerLeft.Lng, 1e-9)
	assert.InDelta(t, 39.8839, box.UpperRight.Lat, 1e-9)
	assert.InDelta(t, -84.8152, box.UpperRight.Lng, 1e-9)

	assert.Equal(t, filepath.Join("data", "grocery_stores_with_latlng.csv"), c.DataPath(c.StoreFile))
	assert.Equal(t, filepath.Join("results", "distance_to_stores.html"), c.ResultPath(c.MapFile))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"empty grid", func(c *Config) { c.NGrid = 0 }, "at least 1 cell"},
		{"inverted range", func(c *Config) { c.MinVal, c.MaxVal = 3, 0 }, "min value must be lower"},
		{"equal range", func(c *Config) { c.MaxVal = c.MinVal }, "min value must be lower"},
		{"single step", func(c *Config) { c.NColor = 1 }, "at least 2 steps"},
		{"single color", func(c *Config) { c.Colors = []string{"r"} }, "at least 2 colors"},
		{"negative offset", func(c *Config) { c.Offsets.Left = -0.1 }, "left offset can't be negative"},
		{"zero offsets", func(c *Config) { c.Offsets = spatial.Offsets{} }, "empty bounding box"},
		{"bad center", func(c *Config) { c.CityCenter.Lat = 91 }, "latitude must be between"},
		{"bad h3", func(c *Config) { c.H3Resolution = 16 }, "h3 resolution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			assert.ErrorContains(t, c.Validate(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Default()
	c.NGrid = 0
	c.NColor = 0

	err := c.Validate()
	assert.ErrorContains(t, err, "cell per axis")
	assert.ErrorContains(t, err, "steps")
}
