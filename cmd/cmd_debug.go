// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jcodagnone/grocerydist/grid"
	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/jcodagnone/grocerydist/store"
	"github.com/spf13/cobra"
)

// we say that it isn't.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugNearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Finds the nearest store of arbitrary points",
	Long: `Reads one "lat,lng" pair per line and prints it followed by the nearest store.

$ echo 39.8,-84.9 | grocerydist debug nearest
39.8,-84.9		{"distance":0.6644004541313915,"store":"ALDI"}
	`,
	RunE: func(_ *cobra.Command, _ []string) error {
		stores, err := store.Load(cfg.DataPath(cfg.StoreFile))
		if err != nil {
			return fmt.Errorf("loading stores: %w", err)
		}

		input := os.Stdin
		if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Enter points to look up, one lat,lng pair per line…")
		}

		return lookupNearest(input, os.Stdout, stores)
	},
}

func lookupNearest(r io.Reader, w io.Writer, stores []store.Store) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		p, err := parsePoint(line)
		if err != nil {
			fmt.Fprintf(w, "%s\t%q\n", line, err)

			continue
		}

		m, err := grid.Nearest(p, stores)
		if err != nil {
			return err
		}

		if m.NoData() {
			fmt.Fprintf(w, "%s\t\tno data\n", line)

			continue
		}

		s, err := json.Marshal(m)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t\t%s\n", line, s)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	return nil
}

func parsePoint(s string) (spatial.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return spatial.Point{}, fmt.Errorf("expected lat,lng but got %d values", len(fields))
	}

	var (
		p   spatial.Point
		err error
	)

	if p.Lat, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return p, fmt.Errorf("parsing latitude: %w", err)
	}

	if p.Lng, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return p, fmt.Errorf("parsing longitude: %w", err)
	}

	return p, p.Validate()
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugNearestCmd)
	debugNearestCmd.Flags().StringVar(&cfg.StoreFile, "stores", cfg.StoreFile, "Store file inside the data directory")
}
