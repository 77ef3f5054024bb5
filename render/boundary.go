// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
)

// LoadBoundary reads the city boundary. The document is passed to the map
// unmodified, but it must be a GeoJSON FeatureCollection, Feature or geometry.
func LoadBoundary(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading boundary: %w", err)
	}

	if err := validateBoundary(data); err != nil {
		return nil, fmt.Errorf("parsing boundary %s: %w", path, err)
	}

	return json.RawMessage(data), nil
}

func validateBoundary(data []byte) error {
	if !json.Valid(data) {
		return errors.New("invalid JSON")
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	var err error

	switch probe.Type {
	case "FeatureCollection":
		_, err = geojson.UnmarshalFeatureCollection(data)
	case "Feature":
		_, err = geojson.UnmarshalFeature(data)
	case "":
		return errors.New("missing GeoJSON type")
	default:
		_, err = geojson.UnmarshalGeometry(data)
	}

	return err
}
