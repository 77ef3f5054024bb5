// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoundingBox(t *testing.T) {
	box := NewBoundingBox(richmond, Offsets{Top: 0.055, Bottom: 0.035, Left: 0.075, Right: 0.075})

	assert.InDelta(t, 39.7939, box.LowerLeft.Lat, 1e-9)
	assert.InDelta(t, -84.9652, box.LowerLeft.Lng, 1e-9)
	assert.InDelta(t, 39.8839, box.UpperRight.Lat, 1e-9)
	assert.InDelta(t, -84.8152, box.UpperRight.Lng, 1e-9)
	assert.NoError(t, box.Validate())
	assert.True(t, box.Contains(richmond))
	assert.False(t, box.Contains(indianapolis))
}

func TestBoundingBoxValidate(t *testing.T) {
	tests := []struct {
		name    string
		box     BoundingBox
		wantErr bool
	}{
		{"unit box", BoundingBox{LowerLeft: Point{0, 0}, UpperRight: Point{1, 1}}, false},
		{"flat box", BoundingBox{LowerLeft: Point{0, 0}, UpperRight: Point{0, 1}}, true},
		{"swapped corners", BoundingBox{LowerLeft: Point{1, 1}, UpperRight: Point{0, 0}}, true},
		{"out of range", BoundingBox{LowerLeft: Point{-95, 0}, UpperRight: Point{0, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() = %v", err)
		})
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	box := BoundingBox{LowerLeft: Point{0, 0}, UpperRight: Point{2, 4}}
	assert.Equal(t, Point{Lat: 1, Lng: 2}, box.Center())
}
