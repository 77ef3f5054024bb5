// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature properties set on every grid cell.
const (
	PropertyDistance = "distance"
	PropertyStore    = "store"
	PropertyH3       = "h3"
)

// FeatureCollection returns the grid as GeoJSON polygons whose feature ids
// are the cell ids. Cells without data carry a null distance.
func (g *Grid) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, len(g.Cells))

	for i := range g.Cells {
		cell := &g.Cells[i]

		f := geojson.NewFeature(orb.Polygon{cell.Ring})
		f.ID = cell.ID

		if cell.NoData() {
			f.Properties[PropertyDistance] = nil
		} else {
			f.Properties[PropertyDistance] = cell.Distance
		}

		f.Properties[PropertyStore] = cell.Store

		if cell.H3 != 0 {
			f.Properties[PropertyH3] = cell.H3.String()
		}

		fc.Append(f)
	}

	return fc
}

// WriteGeoJSON writes the grid FeatureCollection to w.
func (g *Grid) WriteGeoJSON(w io.Writer) error {
	data, err := g.FeatureCollection().MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling grid: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}

	return nil
}

// WriteDistances writes the distance table as CSV, one row per cell ordered
// by id. Cells without data have a "nan" distance.
func (g *Grid) WriteDistances(w io.Writer) error {
	withH3 := len(g.Cells) > 0 && g.Cells[0].H3 != 0

	header := []string{"id", PropertyDistance, PropertyStore}
	if withH3 {
		header = append(header, PropertyH3)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(header))

	for i := range g.Cells {
		cell := &g.Cells[i]

		row[0] = strconv.Itoa(cell.ID)
		row[1] = "nan"
		if !cell.NoData() {
			row[1] = strconv.FormatFloat(cell.Distance, 'f', -1, 64)
		}

		row[2] = cell.Store

		if withH3 {
			row[3] = cell.H3.String()
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing cell %d: %w", cell.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
