// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package colormap maps distances to fill colors.
package colormap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NoDataColor is the fill of cells without a usable value.
const NoDataColor = "#ffffff"

// Single letter color names, as accepted by the original palettes.
var shortNames = map[string]colorful.Color{
	"b": {R: 0, G: 0, B: 1},
	"g": {R: 0, G: 0.5, B: 0},
	"r": {R: 1, G: 0, B: 0},
	"c": {R: 0, G: 0.75, B: 0.75},
	"m": {R: 0.75, G: 0, B: 0.75},
	"y": {R: 0.75, G: 0.75, B: 0},
	"k": {R: 0, G: 0, B: 0},
	"w": {R: 1, G: 1, B: 1},
}

// ParseColor accepts a single letter name (g, y, r, ...) or a #rrggbb string.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if c, ok := shortNames[s]; ok {
		return c, nil
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return c, nil
}

// ParsePalette parses a list of colors with ParseColor.
func ParsePalette(names []string) ([]colorful.Color, error) {
	colors := make([]colorful.Color, 0, len(names))

	var errs []error

	for _, name := range names {
		c, err := ParseColor(name)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		colors = append(colors, c)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return colors, nil
}

// Colormap maps a value inside its range to a color.
type Colormap interface {
	Color(x float64) colorful.Color
}

// Linear interpolates between colors evenly spread over [vmin, vmax].
type Linear struct {
	Colors []colorful.Color
	Index  []float64
}

// NewLinear returns a linear colormap over [vmin, vmax].
func NewLinear(colors []colorful.Color, vmin, vmax float64) (*Linear, error) {
	if len(colors) < 2 {
		return nil, fmt.Errorf("a colormap needs at least 2 colors (got: %d)", len(colors))
	}

	if !(vmin < vmax) {
		return nil, fmt.Errorf("invalid colormap range [%g, %g]", vmin, vmax)
	}

	index := make([]float64, len(colors))
	for i := range index {
		index[i] = vmin + (vmax-vmin)*float64(i)/float64(len(colors)-1)
	}

	return &Linear{Colors: colors, Index: index}, nil
}

// Color implements Colormap.
func (l *Linear) Color(x float64) colorful.Color {
	last := len(l.Index) - 1

	switch {
	case x <= l.Index[0]:
		return l.Colors[0]
	case x >= l.Index[last]:
		return l.Colors[last]
	}

	i := countBelow(l.Index, x)
	p := (x - l.Index[i-1]) / (l.Index[i] - l.Index[i-1])

	return l.Colors[i-1].BlendRgb(l.Colors[i], p)
}

// ToStep discretizes the colormap into n bins of equal width. The first bin
// keeps the lowest color and the last one the highest.
func (l *Linear) ToStep(n int) (*Step, error) {
	if n < 2 {
		return nil, fmt.Errorf("a step colormap needs at least 2 steps (got: %d)", n)
	}

	vmin, vmax := l.Index[0], l.Index[len(l.Index)-1]

	index := make([]float64, n+1)
	for i := range index {
		index[i] = vmin + (vmax-vmin)*float64(i)/float64(n)
	}

	colors := make([]colorful.Color, n)
	for i := range colors {
		w := float64(i) / float64(n-1)
		colors[i] = l.Color(index[i]*(1-w) + index[i+1]*w)
	}

	return &Step{Colors: colors, Index: index}, nil
}

// Step is a piecewise constant colormap: Colors[i] fills (Index[i], Index[i+1]].
type Step struct {
	Colors []colorful.Color
	Index  []float64
}

// Color implements Colormap.
func (s *Step) Color(x float64) colorful.Color {
	switch {
	case x <= s.Index[0]:
		return s.Colors[0]
	case x >= s.Index[len(s.Index)-1]:
		return s.Colors[len(s.Colors)-1]
	}

	return s.Colors[countBelow(s.Index, x)-1]
}

// Bin is one entry of a legend.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Color string  `json:"color"`
}

// Legend returns one bin per step, ordered by value.
func (s *Step) Legend() []Bin {
	bins := make([]Bin, len(s.Colors))
	for i, c := range s.Colors {
		bins[i] = Bin{Lo: s.Index[i], Hi: s.Index[i+1], Color: c.Hex()}
	}

	return bins
}

// New builds the stepped colormap used for the distance overlay.
func New(palette []string, vmin, vmax float64, steps int) (*Step, error) {
	colors, err := ParsePalette(palette)
	if err != nil {
		return nil, err
	}

	linear, err := NewLinear(colors, vmin, vmax)
	if err != nil {
		return nil, err
	}

	return linear.ToStep(steps)
}

// ColorFor returns the hex color of value. NaN maps to NoDataColor, anything
// else is clamped to [vmin, vmax] before the lookup.
func ColorFor(value, vmin, vmax float64, cmap Colormap) string {
	if math.IsNaN(value) {
		return NoDataColor
	}

	return cmap.Color(math.Min(math.Max(value, vmin), vmax)).Hex()
}

func countBelow(index []float64, x float64) int {
	n := 0

	for _, v := range index {
		if v < x {
			n++
		}
	}

	return n
}
