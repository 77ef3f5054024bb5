// Copyright 2025 The GroceryDist Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"
)

const (
	earthDiameterKm = 12742
	kmToMiles       = 0.6213
	degToRad        = math.Pi / 180
)

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// IsNaN reports whether any of the coordinates is NaN.
func (p Point) IsNaN() bool {
	return math.IsNaN(p.Lat) || math.IsNaN(p.Lng)
}

// Validate verifies that the coordinates are in range.
func (p Point) Validate() error {
	if p.IsNaN() {
		return errors.New("coordinates are not a number")
	}

	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got: %f)", p.Lat)
	}

	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got: %f)", p.Lng)
	}

	return nil
}

// Distance returns the great-circle distance in miles between two points.
//
// Inputs are not validated; a NaN coordinate yields a NaN distance.
func Distance(a, b Point) float64 {
	h := 0.5 - math.Cos((b.Lat-a.Lat)*degToRad)/2 +
		math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*
			(1-math.Cos((b.Lng-a.Lng)*degToRad))/2

	return kmToMiles * earthDiameterKm * math.Asin(math.Sqrt(h))
}

// DistanceTo calculates the distance to other in miles.
func (p Point) DistanceTo(other Point) float64 {
	return Distance(p, other)
}

// H3Cell returns the H3 cell containing the point at the given resolution.
func (p Point) H3Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("converting %s to h3 cell at res %d: %w", p, res, err)
	}

	return cell, nil
}
