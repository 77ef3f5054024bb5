// Copyright 2025 The GroceryDist Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Offsets are the degrees added to or subtracted from a center point to
// obtain a bounding box. Each side is independent.
type Offsets struct {
	Top    float64 `json:"top"`    // latitude added to the center
	Bottom float64 `json:"bottom"` // latitude subtracted from the center
	Left   float64 `json:"left"`   // longitude subtracted from the center
	Right  float64 `json:"right"`  // longitude added to the center
}

// BoundingBox is a rectangle in degrees.
type BoundingBox struct {
	LowerLeft  Point `json:"lower_left"`
	UpperRight Point `json:"upper_right"`
}

// NewBoundingBox builds the box around center.
func NewBoundingBox(center Point, offsets Offsets) BoundingBox {
	return BoundingBox{
		LowerLeft: Point{
			Lat: center.Lat - offsets.Bottom,
			Lng: center.Lng - offsets.Left,
		},
		UpperRight: Point{
			Lat: center.Lat + offsets.Top,
			Lng: center.Lng + offsets.Right,
		},
	}
}

// Validate checks that the corners are valid and ordered.
func (b BoundingBox) Validate() error {
	if err := b.LowerLeft.Validate(); err != nil {
		return fmt.Errorf("lower left corner: %w", err)
	}

	if err := b.UpperRight.Validate(); err != nil {
		return fmt.Errorf("upper right corner: %w", err)
	}

	if b.LowerLeft.Lat >= b.UpperRight.Lat || b.LowerLeft.Lng >= b.UpperRight.Lng {
		return fmt.Errorf("empty bounding box: %s - %s", b.LowerLeft, b.UpperRight)
	}

	return nil
}

// Bound returns the box as an orb.Bound, in (lng, lat) order.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.LowerLeft.Lng, b.LowerLeft.Lat},
		Max: orb.Point{b.UpperRight.Lng, b.UpperRight.Lat},
	}
}

// Contains reports whether p lies inside the box, borders included.
func (b BoundingBox) Contains(p Point) bool {
	return b.Bound().Contains(orb.Point{p.Lng, p.Lat})
}

// Center returns the center of the box.
func (b BoundingBox) Center() Point {
	c := b.Bound().Center()

	return Point{Lat: c.Lat(), Lng: c.Lon()}
}
