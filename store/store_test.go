// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storesCSV = `index,address,store_name,img_width,img_height,lat,lng
0,"1 Main St, Richmond, IN",Kroger,40,40,39.8296,-84.8573
1,"2 Main St, Richmond, IN",ALDI,50,25.0,39.8077,-84.8925
2,"3 Main St, Richmond, IN",Meijer,,,39.8390,-84.8120
`

func TestRead(t *testing.T) {
	stores, err := Read(strings.NewReader(storesCSV))
	require.NoError(t, err)

	expected := []Store{
		{Name: "Kroger", Point: spatial.Point{Lat: 39.8296, Lng: -84.8573}, IconWidth: 40, IconHeight: 40},
		{Name: "ALDI", Point: spatial.Point{Lat: 39.8077, Lng: -84.8925}, IconWidth: 50, IconHeight: 25},
		{Name: "Meijer", Point: spatial.Point{Lat: 39.8390, Lng: -84.8120}},
	}

	if diff := cmp.Diff(expected, stores); diff != "" {
		t.Errorf("stores mismatch (-expected +got):\n%s", diff)
	}

	assert.True(t, stores[0].HasIconSize())
	assert.False(t, stores[2].HasIconSize())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing column",
			input: "store_name,lat\nKroger,39.8\n",
			want:  `missing column "lng"`,
		},
		{
			name:  "not geocoded",
			input: "store_name,lat,lng\nKroger,nan,nan\n",
			want:  "invalid coordinates",
		},
		{
			name:  "bad latitude",
			input: "store_name,lat,lng\nKroger,abc,-84.8\n",
			want:  "parsing latitude",
		},
		{
			name:  "out of range",
			input: "store_name,lat,lng\nKroger,120,-84.8\n",
			want:  "latitude must be between",
		},
		{
			name:  "duplicate",
			input: "store_name,lat,lng\nKroger,39.8,-84.8\n kroger ,39.9,-84.9\n",
			want:  "duplicate store name",
		},
		{
			name:  "empty name",
			input: "store_name,lat,lng\n,39.8,-84.8\n",
			want:  "store name can't be empty",
		},
		{
			name:  "fractional icon size",
			input: "store_name,lat,lng,img_width\nKroger,39.8,-84.8,1.5\n",
			want:  "icon width",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadDuplicateIsSentinel(t *testing.T) {
	_, err := Read(strings.NewReader("store_name,lat,lng\nALDI,39.8,-84.8\nAldi,39.9,-84.9\n"))
	assert.ErrorIs(t, err, ErrDuplicateStore)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.csv")
	require.NoError(t, os.WriteFile(path, []byte(storesCSV), 0o600))

	stores, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, stores, 3)
	assert.Equal(t, filepath.Join("data", "Kroger.png"), stores[0].IconPath("data"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
