// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package store loads the grocery stores used as distance targets.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/jcodagnone/grocerydist/utils/textutils"
)

// Column names of the store file.
const (
	ColumnName       = "store_name"
	ColumnLat        = "lat"
	ColumnLng        = "lng"
	ColumnIconWidth  = "img_width"
	ColumnIconHeight = "img_height"
)

// ErrDuplicateStore is returned when two stores share the same name.
var ErrDuplicateStore = errors.New("duplicate store name")

// Store is a known grocery store location.
type Store struct {
	Name       string        `json:"name"`
	Point      spatial.Point `json:"point"`
	IconWidth  int           `json:"icon_width,omitempty"`
	IconHeight int           `json:"icon_height,omitempty"`
}

// HasIconSize reports whether the store declares both icon dimensions.
func (s Store) HasIconSize() bool {
	return s.IconWidth > 0 && s.IconHeight > 0
}

// IconPath is the expected location of the store logo.
func (s Store) IconPath(dataDir string) string {
	return filepath.Join(dataDir, s.Name+".png")
}

// Load reads the stores from a CSV file.
func Load(path string) ([]Store, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening store file: %w", err)
	}
	defer f.Close()

	stores, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return stores, nil
}

// Read parses the stores from CSV. The order of the input is preserved, as
// it decides ties in the nearest store search.
func Read(r io.Reader) ([]Store, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{ColumnName, ColumnLat, ColumnLng} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var (
		stores []Store
		errs   []error
	)

	seen := make(map[string]int)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		s, err := parseRow(cols, row)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))

			continue
		}

		key := textutils.LowerASCIIFolding(s.Name)
		if prev, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("line %d: %w: %q already defined at line %d", line, ErrDuplicateStore, s.Name, prev))

			continue
		}

		seen[key] = line

		stores = append(stores, s)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return stores, nil
}

func parseRow(cols map[string]int, row []string) (Store, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[i])
	}

	s := Store{Name: field(ColumnName)}
	if s.Name == "" {
		return s, errors.New("store name can't be empty")
	}

	var err error

	if s.Point.Lat, err = strconv.ParseFloat(field(ColumnLat), 64); err != nil {
		return s, fmt.Errorf("parsing latitude of %q: %w", s.Name, err)
	}

	if s.Point.Lng, err = strconv.ParseFloat(field(ColumnLng), 64); err != nil {
		return s, fmt.Errorf("parsing longitude of %q: %w", s.Name, err)
	}

	if err := s.Point.Validate(); err != nil {
		return s, fmt.Errorf("invalid coordinates for %q: %w", s.Name, err)
	}

	if s.IconWidth, err = parseSize(field(ColumnIconWidth)); err != nil {
		return s, fmt.Errorf("parsing icon width of %q: %w", s.Name, err)
	}

	if s.IconHeight, err = parseSize(field(ColumnIconHeight)); err != nil {
		return s, fmt.Errorf("parsing icon height of %q: %w", s.Name, err)
	}

	return s, nil
}

// pandas writes integer columns holding NaN as floats, so "32.0" is accepted.
func parseSize(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	return int(v), nil
}
