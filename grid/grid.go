// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package grid partitions a bounding box into a regular grid and computes,
// for every cell, the distance to the nearest store.
package grid

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/jcodagnone/grocerydist/store"
	"github.com/mattn/go-isatty"
	"github.com/paulmach/orb"
	"github.com/schollz/progressbar/v3"
	"github.com/uber/h3-go/v4"
)

// Anchor selects the point of a cell used to measure the distance.
type Anchor int

const (
	// AnchorCorner measures from the lower-left corner of the cell.
	AnchorCorner Anchor = iota
	// AnchorCentroid measures from the geometric center of the cell.
	AnchorCentroid
)

func (a Anchor) String() string {
	switch a {
	case AnchorCorner:
		return "corner"
	case AnchorCentroid:
		return "centroid"
	default:
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
}

// ParseAnchor is the inverse of Anchor.String.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "corner", "":
		return AnchorCorner, nil
	case "centroid":
		return AnchorCentroid, nil
	default:
		return 0, fmt.Errorf("unknown anchor %q (valid: corner, centroid)", s)
	}
}

// Options configures Build.
type Options struct {
	// Number of cells on each axis.
	Cells int

	// Point of each cell used for the distance computation.
	Anchor Anchor

	// Max number of goroutines computing cells. Defaults to the number of CPUs.
	MaxProcs int

	// When positive, each cell is tagged with the H3 cell of its anchor.
	H3Resolution int

	// Shows a progress bar on a terminal.
	Progress bool
}

// Cell is one rectangle of the grid.
type Cell struct {
	// 1-based, row-major: latitude steps outer, longitude steps inner.
	ID int
	// Closed ring in (lng, lat) order: upper-left, upper-right, lower-right,
	// lower-left, upper-left.
	Ring   orb.Ring
	Anchor spatial.Point
	H3     h3.Cell
	Match
}

// Grid is the computed distance field.
type Grid struct {
	Box       spatial.BoundingBox
	N         int
	LatStride float64
	LngStride float64
	Cells     []Cell
}

// Cell returns the cell with the given id.
func (g *Grid) Cell(id int) (*Cell, bool) {
	if id < 1 || id > len(g.Cells) {
		return nil, false
	}

	return &g.Cells[id-1], true
}

// linspace returns n+1 evenly spaced breakpoints between lo and hi, both included.
func linspace(lo, hi float64, n int) []float64 {
	steps := make([]float64, n+1)
	step := (hi - lo) / float64(n)

	for i := range n {
		steps[i] = lo + float64(i)*step
	}

	steps[n] = hi

	return steps
}

// Build partitions box into opts.Cells × opts.Cells cells and computes the
// nearest store of each one. The result does not depend on opts.MaxProcs.
func Build(ctx context.Context, box spatial.BoundingBox, stores []store.Store, opts Options) (*Grid, error) {
	if opts.Cells < 1 {
		return nil, fmt.Errorf("invalid number of cells: %d", opts.Cells)
	}

	if err := box.Validate(); err != nil {
		return nil, err
	}

	if len(stores) == 0 {
		return nil, ErrNoStores
	}

	n := opts.Cells
	latSteps := linspace(box.LowerLeft.Lat, box.UpperRight.Lat, n)
	lngSteps := linspace(box.LowerLeft.Lng, box.UpperRight.Lng, n)

	g := &Grid{
		Box:       box,
		N:         n,
		LatStride: latSteps[1] - latSteps[0],
		LngStride: lngSteps[1] - lngSteps[0],
		Cells:     make([]Cell, n*n),
	}

	maxProcs := opts.MaxProcs
	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Computing distances"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)
	errChan := make(chan error, n)

	// one goroutine per latitude row; every row writes a disjoint slice range
	for i := range n {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				errChan <- err

				return
			}

			for j := range n {
				idx := i*n + j
				if err := g.fill(idx, latSteps[i], lngSteps[j], stores, opts); err != nil {
					errChan <- err

					return
				}
			}

			if bar != nil {
				if err := bar.Add(1); err != nil {
					log.Printf("Updating progress bar: %s", err)
				}
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return g, nil
}

func (g *Grid) fill(idx int, lat, lng float64, stores []store.Store, opts Options) error {
	anchor := spatial.Point{Lat: lat, Lng: lng}
	if opts.Anchor == AnchorCentroid {
		anchor = spatial.Point{Lat: lat + g.LatStride/2, Lng: lng + g.LngStride/2}
	}

	match, err := Nearest(anchor, stores)
	if err != nil {
		return fmt.Errorf("cell %d: %w", idx+1, err)
	}

	upperLeft := orb.Point{lng, lat + g.LatStride}

	cell := Cell{
		ID: idx + 1,
		Ring: orb.Ring{
			upperLeft,
			{lng + g.LngStride, lat + g.LatStride},
			{lng + g.LngStride, lat},
			{lng, lat},
			upperLeft,
		},
		Anchor: anchor,
		Match:  match,
	}

	if opts.H3Resolution > 0 {
		if cell.H3, err = anchor.H3Cell(opts.H3Resolution); err != nil {
			return fmt.Errorf("cell %d: %w", cell.ID, err)
		}
	}

	g.Cells[idx] = cell

	return nil
}
