// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"database/sql"
	"math"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jcodagnone/grocerydist/grid"
	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/jcodagnone/grocerydist/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("duckdb", "") // In-memory database
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func richmondGrid(t *testing.T, opts grid.Options) *grid.Grid {
	t.Helper()

	box := spatial.NewBoundingBox(
		spatial.Point{Lat: 39.8289, Lng: -84.8902},
		spatial.Offsets{Top: 0.055, Bottom: 0.035, Left: 0.075, Right: 0.075},
	)
	stores := []store.Store{
		{Name: "Kroger", Point: spatial.Point{Lat: 39.8296, Lng: -84.8573}},
		{Name: "ALDI", Point: spatial.Point{Lat: 39.8077, Lng: -84.8925}},
		{Name: "Meijer", Point: spatial.Point{Lat: 39.8390, Lng: -84.8120}},
	}

	g, err := grid.Build(context.Background(), box, stores, opts)
	require.NoError(t, err)

	return g
}

func TestSummarize(t *testing.T) {
	db := openDB(t)
	g := richmondGrid(t, grid.Options{Cells: 10, H3Resolution: 7})

	summary, err := Summarize(context.Background(), db, g, 1.0)
	require.NoError(t, err)

	// expected values computed straight from the grid
	counts := make(map[string]int)
	maxDistance := make(map[string]float64)
	within := 0

	for _, cell := range g.Cells {
		counts[cell.Store]++
		maxDistance[cell.Store] = math.Max(maxDistance[cell.Store], cell.Distance)

		if cell.Distance <= 1.0 {
			within++
		}
	}

	assert.Equal(t, 100, summary.Cells)
	assert.Zero(t, summary.NoData)
	assert.Equal(t, within, summary.WithinThreshold)
	assert.Positive(t, summary.H3Cells)
	require.Len(t, summary.Stores, len(counts))

	share := 0.0

	for i, c := range summary.Stores {
		assert.Equal(t, counts[c.Store], c.Cells, c.Store)
		assert.InDelta(t, maxDistance[c.Store], c.MaxDistance, 1e-9, c.Store)
		assert.LessOrEqual(t, c.MeanDistance, c.MaxDistance)

		if i > 0 {
			assert.GreaterOrEqual(t, summary.Stores[i-1].Cells, c.Cells)
		}

		share += c.Share
	}

	assert.InDelta(t, 1.0, share, 1e-9)
}

func TestSummarizeNoData(t *testing.T) {
	db := openDB(t)

	g := &grid.Grid{Cells: []grid.Cell{
		{ID: 1, Match: grid.Match{Distance: 0.5, Store: "ALDI"}},
		{ID: 2, Match: grid.Match{Distance: math.NaN()}},
		{ID: 3, Match: grid.Match{Distance: 2.5, Store: "ALDI"}},
	}}

	summary, err := Summarize(context.Background(), db, g, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Cells)
	assert.Equal(t, 1, summary.NoData)
	assert.Equal(t, 1, summary.WithinThreshold)
	assert.Zero(t, summary.H3Cells)
	require.Len(t, summary.Stores, 1)
	assert.Equal(t, Coverage{Store: "ALDI", Cells: 2, Share: 1, MeanDistance: 1.5, MaxDistance: 2.5}, summary.Stores[0])
}

func TestLoadReplacesPreviousGrid(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, Load(ctx, db, richmondGrid(t, grid.Options{Cells: 4})))
	require.NoError(t, Load(ctx, db, richmondGrid(t, grid.Options{Cells: 2})))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grid_cells`).Scan(&n))
	assert.Equal(t, 4, n)
}
