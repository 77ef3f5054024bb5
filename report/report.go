// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package report summarizes a distance grid per store with DuckDB.
package report

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcodagnone/grocerydist/grid"
)

// Coverage describes the cells whose nearest store is Store.
type Coverage struct {
	Store        string  `json:"store"`
	Cells        int     `json:"cells"`
	Share        float64 `json:"share"` // of the cells with data
	MeanDistance float64 `json:"mean_distance"`
	MaxDistance  float64 `json:"max_distance"`
}

// Summary is the coverage report of a grid.
type Summary struct {
	Cells int `json:"cells"`
	// Cells without a usable distance.
	NoData int `json:"no_data"`
	// Cells at most Threshold miles away from a store.
	WithinThreshold int     `json:"within_threshold"`
	Threshold       float64 `json:"threshold"`
	// Distinct H3 cells touched by the grid anchors, 0 when untagged.
	H3Cells int        `json:"h3_cells"`
	Stores  []Coverage `json:"stores"`
}

const schema = `
	CREATE OR REPLACE TABLE grid_cells (
		id       INTEGER PRIMARY KEY,
		distance DOUBLE,
		store    VARCHAR,
		h3       BIGINT
	)`

// Load copies the grid into the grid_cells table, replacing its content.
func Load(ctx context.Context, db *sql.DB, g *grid.Grid) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating grid_cells: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO grid_cells (id, distance, store, h3) VALUES (?, ?, ?, ?)`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range g.Cells {
		cell := &g.Cells[i]

		var (
			distance sql.NullFloat64
			store    sql.NullString
			h3       sql.NullInt64
		)

		if !cell.NoData() {
			distance = sql.NullFloat64{Float64: cell.Distance, Valid: true}
			store = sql.NullString{String: cell.Store, Valid: true}
		}

		if cell.H3 != 0 {
			h3 = sql.NullInt64{Int64: int64(cell.H3), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, cell.ID, distance, store, h3); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("inserting cell %d: %w", cell.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing grid: %w", err)
	}

	return nil
}

// Summarize loads g and computes its coverage report.
func Summarize(ctx context.Context, db *sql.DB, g *grid.Grid, threshold float64) (*Summary, error) {
	if err := Load(ctx, db, g); err != nil {
		return nil, err
	}

	s := &Summary{Threshold: threshold}

	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE distance IS NULL),
			COUNT(*) FILTER (WHERE distance <= ?),
			COUNT(DISTINCT h3)
		FROM grid_cells`, threshold).Scan(&s.Cells, &s.NoData, &s.WithinThreshold, &s.H3Cells)
	if err != nil {
		return nil, fmt.Errorf("counting cells: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			store,
			COUNT(*) AS cells,
			COUNT(*)::DOUBLE / SUM(COUNT(*)) OVER () AS share,
			AVG(distance),
			MAX(distance)
		FROM grid_cells
		WHERE distance IS NOT NULL
		GROUP BY store
		ORDER BY cells DESC, store`)
	if err != nil {
		return nil, fmt.Errorf("querying coverage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Coverage
		if err := rows.Scan(&c.Store, &c.Cells, &c.Share, &c.MeanDistance, &c.MaxDistance); err != nil {
			return nil, fmt.Errorf("scanning coverage: %w", err)
		}

		s.Stores = append(s.Stores, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading coverage: %w", err)
	}

	return s, nil
}
