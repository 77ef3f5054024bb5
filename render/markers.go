// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/jcodagnone/grocerydist/store"
)

// Icon is a store logo inlined as a data URI.
type Icon struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Marker is a store pin on the map.
type Marker struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	// Nil means the default Leaflet marker.
	Icon *Icon `json:"icon,omitempty"`
}

// BuildMarkers returns one marker per store, in input order. Stores whose
// logo is missing from dataDir get the default marker.
func BuildMarkers(stores []store.Store, dataDir string) ([]Marker, error) {
	markers := make([]Marker, 0, len(stores))

	for _, s := range stores {
		m := Marker{Name: s.Name, Lat: s.Point.Lat, Lng: s.Point.Lng}

		icon, err := loadIcon(s, dataDir)

		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("No logo for %s, using the default marker", s.Name)
		case err != nil:
			return nil, fmt.Errorf("loading logo of %s: %w", s.Name, err)
		default:
			m.Icon = icon
		}

		markers = append(markers, m)
	}

	return markers, nil
}

func loadIcon(s store.Store, dataDir string) (*Icon, error) {
	data, err := os.ReadFile(filepath.Clean(s.IconPath(dataDir)))
	if err != nil {
		return nil, err
	}

	icon := &Icon{
		URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		Width:  s.IconWidth,
		Height: s.IconHeight,
	}

	if !s.HasIconSize() {
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", s.IconPath(dataDir), err)
		}

		icon.Width, icon.Height = cfg.Width, cfg.Height
	}

	return icon, nil
}
