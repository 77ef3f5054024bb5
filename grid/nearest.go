// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"errors"
	"math"

	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/jcodagnone/grocerydist/store"
)

// ErrNoStores is returned when a search is attempted without stores.
var ErrNoStores = errors.New("no stores configured")

// Match is the result of a nearest store search.
type Match struct {
	Distance float64 `json:"distance"` // miles, NaN when no store is comparable
	Store    string  `json:"store"`
}

// NoData reports whether the match carries no usable distance.
func (m Match) NoData() bool {
	return math.IsNaN(m.Distance)
}

// Nearest returns the closest store to p by scanning every store.
//
// Ties are resolved in favour of the store that appears first in stores.
// NaN distances never win, so if no store yields a comparable distance the
// match has a NaN distance and an empty store name.
func Nearest(p spatial.Point, stores []store.Store) (Match, error) {
	if len(stores) == 0 {
		return Match{}, ErrNoStores
	}

	best := Match{Distance: math.Inf(1)}
	found := false

	for _, s := range stores {
		if d := spatial.Distance(p, s.Point); d < best.Distance {
			best = Match{Distance: d, Store: s.Name}
			found = true
		}
	}

	if !found {
		return Match{Distance: math.NaN()}, nil
	}

	return best, nil
}
