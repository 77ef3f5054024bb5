// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/jcodagnone/grocerydist/store"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	unitBox = spatial.BoundingBox{
		LowerLeft:  spatial.Point{Lat: 0, Lng: 0},
		UpperRight: spatial.Point{Lat: 1, Lng: 1},
	}
	testStores = []store.Store{
		{Name: "A", Point: spatial.Point{Lat: 0, Lng: 0}},
		{Name: "B", Point: spatial.Point{Lat: 1, Lng: 1}},
	}
	richmondBox = spatial.NewBoundingBox(
		spatial.Point{Lat: 39.8289, Lng: -84.8902},
		spatial.Offsets{Top: 0.055, Bottom: 0.035, Left: 0.075, Right: 0.075},
	)
	richmondStores = []store.Store{
		{Name: "Kroger", Point: spatial.Point{Lat: 39.8296, Lng: -84.8573}},
		{Name: "ALDI", Point: spatial.Point{Lat: 39.8077, Lng: -84.8925}},
		{Name: "Meijer", Point: spatial.Point{Lat: 39.8390, Lng: -84.8120}},
		{Name: "Walmart", Point: spatial.Point{Lat: 39.8160, Lng: -84.9410}},
	}
)

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, linspace(0, 1, 2))
	assert.Equal(t, []float64{-2, -1, 0, 1, 2}, linspace(-2, 2, 4))

	steps := linspace(39.7939, 39.8839, 50)
	assert.Len(t, steps, 51)
	assert.Equal(t, 39.8839, steps[50])
}

func TestBuildUnitBox(t *testing.T) {
	g, err := Build(context.Background(), unitBox, testStores, Options{Cells: 2, MaxProcs: 1})
	require.NoError(t, err)
	require.Len(t, g.Cells, 4)
	assert.Equal(t, 0.5, g.LatStride)
	assert.Equal(t, 0.5, g.LngStride)

	expected := []struct {
		id     int
		anchor spatial.Point
		ring   orb.Ring
	}{
		{1, spatial.Point{Lat: 0, Lng: 0}, orb.Ring{{0, 0.5}, {0.5, 0.5}, {0.5, 0}, {0, 0}, {0, 0.5}}},
		{2, spatial.Point{Lat: 0, Lng: 0.5}, orb.Ring{{0.5, 0.5}, {1, 0.5}, {1, 0}, {0.5, 0}, {0.5, 0.5}}},
		{3, spatial.Point{Lat: 0.5, Lng: 0}, orb.Ring{{0, 1}, {0.5, 1}, {0.5, 0.5}, {0, 0.5}, {0, 1}}},
		{4, spatial.Point{Lat: 0.5, Lng: 0.5}, orb.Ring{{0.5, 1}, {1, 1}, {1, 0.5}, {0.5, 0.5}, {0.5, 1}}},
	}

	rings := make(map[string]bool)

	for i, want := range expected {
		cell := g.Cells[i]
		assert.Equal(t, want.id, cell.ID)
		assert.Equal(t, want.anchor, cell.Anchor)

		if diff := cmp.Diff(want.ring, cell.Ring); diff != "" {
			t.Errorf("cell %d ring mismatch (-expected +got):\n%s", cell.ID, diff)
		}

		assert.Len(t, cell.Ring, 5)
		assert.True(t, cell.Ring.Closed(), "cell %d ring is not closed", cell.ID)

		rings[fmt.Sprint(cell.Ring)] = true
	}

	assert.Len(t, rings, 4, "rings must be distinct")

	// cell 1 is anchored on store A
	assert.Equal(t, "A", g.Cells[0].Store)
	assert.Zero(t, g.Cells[0].Distance)

	want4, err := Nearest(spatial.Point{Lat: 0.5, Lng: 0.5}, testStores)
	require.NoError(t, err)
	assert.Equal(t, want4, g.Cells[3].Match)
}

func TestBuildCentroidAnchor(t *testing.T) {
	g, err := Build(context.Background(), unitBox, testStores, Options{Cells: 2, Anchor: AnchorCentroid})
	require.NoError(t, err)

	assert.Equal(t, spatial.Point{Lat: 0.25, Lng: 0.25}, g.Cells[0].Anchor)
	assert.Equal(t, spatial.Point{Lat: 0.75, Lng: 0.75}, g.Cells[3].Anchor)
	assert.Equal(t, "A", g.Cells[0].Store)
	assert.Equal(t, "B", g.Cells[3].Store)
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	sequential, err := Build(context.Background(), richmondBox, richmondStores, Options{Cells: 20, MaxProcs: 1})
	require.NoError(t, err)

	parallel, err := Build(context.Background(), richmondBox, richmondStores, Options{Cells: 20, MaxProcs: 8})
	require.NoError(t, err)

	if diff := cmp.Diff(sequential, parallel); diff != "" {
		t.Errorf("parallel build differs (-sequential +parallel):\n%s", diff)
	}

	for i, cell := range parallel.Cells {
		assert.Equal(t, i+1, cell.ID)
	}
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Build(ctx, unitBox, nil, Options{Cells: 2})
	assert.ErrorIs(t, err, ErrNoStores)

	_, err = Build(ctx, unitBox, testStores, Options{Cells: 0})
	assert.Error(t, err)

	_, err = Build(ctx, spatial.BoundingBox{}, testStores, Options{Cells: 2})
	assert.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = Build(canceled, unitBox, testStores, Options{Cells: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildH3(t *testing.T) {
	g, err := Build(context.Background(), richmondBox, richmondStores, Options{Cells: 3, H3Resolution: 8})
	require.NoError(t, err)

	for _, cell := range g.Cells {
		assert.True(t, cell.H3.IsValid(), "cell %d", cell.ID)
		assert.Equal(t, 8, cell.H3.Resolution())
	}
}

func TestGridCell(t *testing.T) {
	g, err := Build(context.Background(), unitBox, testStores, Options{Cells: 2})
	require.NoError(t, err)

	c, ok := g.Cell(3)
	require.True(t, ok)
	assert.Equal(t, 3, c.ID)

	_, ok = g.Cell(0)
	assert.False(t, ok)

	_, ok = g.Cell(5)
	assert.False(t, ok)
}

func TestParseAnchor(t *testing.T) {
	for _, a := range []Anchor{AnchorCorner, AnchorCentroid} {
		got, err := ParseAnchor(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := ParseAnchor("middle")
	assert.Error(t, err)
}

func TestWriteGeoJSON(t *testing.T) {
	g, err := Build(context.Background(), unitBox, testStores, Options{Cells: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.WriteGeoJSON(&buf))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 4)

	for i, f := range fc.Features {
		assert.EqualValues(t, i+1, f.ID)

		poly, ok := f.Geometry.(orb.Polygon)
		require.True(t, ok)
		assert.Equal(t, g.Cells[i].Ring, poly[0])
		assert.Equal(t, g.Cells[i].Store, f.Properties.MustString(PropertyStore))
	}

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "FeatureCollection", raw["type"])
}

func TestWriteDistances(t *testing.T) {
	g, err := Build(context.Background(), unitBox, testStores, Options{Cells: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.WriteDistances(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"id", "distance", "store"}, rows[0])
	assert.Equal(t, []string{"1", "0", "A"}, rows[1])
	assert.Equal(t, "4", rows[4][0])
}

func TestWriteDistancesNoData(t *testing.T) {
	g := &Grid{Cells: []Cell{{ID: 1}}}
	g.Cells[0].Distance = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, g.WriteDistances(&buf))
	assert.Equal(t, "id,distance,store\n1,nan,\n", buf.String())

	fc := g.FeatureCollection()
	assert.Nil(t, fc.Features[0].Properties[PropertyDistance])
}
