// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Sentinel is written in place of both coordinates when an address could
// not be geocoded.
const Sentinel = "nan"

// Column names of the address table.
const (
	ColumnAddress = "address"
	ColumnIndex   = "index"
	ColumnLat     = "lat"
	ColumnLng     = "lng"
)

// Leading column written by pandas for an unnamed DataFrame index.
const unnamedIndexColumn = "Unnamed: 0"

// Record is one row of the address table.
type Record struct {
	// Original fields, in header order.
	Fields  []string
	Address string
	// Formatted coordinates, or Sentinel.
	Lat string
	Lng string
}

// Found reports whether the record carries coordinates.
func (r *Record) Found() bool {
	return r.Lat != "" && r.Lat != Sentinel && r.Lng != "" && r.Lng != Sentinel
}

// Table is an address file with all its original columns.
type Table struct {
	Header  []string
	Records []Record
}

// Stats summarizes a batch run.
type Stats struct {
	Total    int
	Found    int
	NotFound int
}

// BatchOptions configures GeocodeAll.
type BatchOptions struct {
	// Pause between two requests.
	Delay time.Duration
}

// LoadTable reads the address table from a CSV file.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening address file: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return t, nil
}

// ReadTable parses an address table. It must have an address column; an
// unnamed leading column is renamed to "index".
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, errors.New("empty address file")
	}

	header := rows[0]
	if header[0] == "" || header[0] == unnamedIndexColumn {
		header[0] = ColumnIndex
	}

	addressCol := slices.Index(header, ColumnAddress)
	if addressCol < 0 {
		return nil, fmt.Errorf("missing column %q", ColumnAddress)
	}

	t := &Table{Header: header, Records: make([]Record, 0, len(rows)-1)}

	latCol, lngCol := slices.Index(header, ColumnLat), slices.Index(header, ColumnLng)

	for _, row := range rows[1:] {
		rec := Record{Fields: row, Address: strings.TrimSpace(row[addressCol])}
		if latCol >= 0 && lngCol >= 0 {
			rec.Lat, rec.Lng = row[latCol], row[lngCol]
		}

		t.Records = append(t.Records, rec)
	}

	return t, nil
}

// GeocodeAll geocodes every record in order, one request at a time. A failed
// address is logged and tagged with Sentinel; only a canceled context aborts.
func GeocodeAll(ctx context.Context, g Geocoder, t *Table, opts BatchOptions) (Stats, error) {
	stats := Stats{Total: len(t.Records)}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(t.Records),
			progressbar.OptionSetDescription("Geocoding"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for i := range t.Records {
		rec := &t.Records[i]

		if i > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}

		res, err := geocodeRecord(ctx, g, rec.Address)

		switch {
		case err == nil:
			rec.Lat = strconv.FormatFloat(res.Lat, 'f', -1, 64)
			rec.Lng = strconv.FormatFloat(res.Lng, 'f', -1, 64)
			stats.Found++
		case ctx.Err() != nil:
			return stats, ctx.Err()
		default:
			log.Printf("Failed to geocode address: %s: %v", rec.Address, err)

			rec.Lat, rec.Lng = Sentinel, Sentinel
			stats.NotFound++
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Printf("Updating progress bar: %s", err)
			}
		}
	}

	return stats, nil
}

func geocodeRecord(ctx context.Context, g Geocoder, address string) (*Result, error) {
	if address == "" {
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "empty address"}
	}

	res, err := g.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := res.Validate(); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: "invalid coordinates", Err: err}
	}

	return res, nil
}

// WriteTable writes every found record with all its original columns plus
// lat and lng. Records tagged with Sentinel are left out.
func WriteTable(w io.Writer, t *Table) error {
	header := slices.Clone(t.Header)

	latCol, lngCol := slices.Index(header, ColumnLat), slices.Index(header, ColumnLng)
	if latCol < 0 {
		latCol = len(header)
		header = append(header, ColumnLat)
	}

	if lngCol < 0 {
		lngCol = len(header)
		header = append(header, ColumnLng)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range t.Records {
		rec := &t.Records[i]
		if !rec.Found() {
			continue
		}

		row := make([]string, len(header))
		copy(row, rec.Fields)
		row[latCol] = rec.Lat
		row[lngCol] = rec.Lng

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %q: %w", rec.Address, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// SaveTable writes the table to path, creating its directory when needed.
func SaveTable(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := WriteTable(f, t); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}
