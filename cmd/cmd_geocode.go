// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jcodagnone/grocerydist/geocoding"
	"github.com/jcodagnone/grocerydist/utils/textutils"
	"github.com/spf13/cobra"
)

var geocodeOptions = struct {
	geocoding.ClientOptions
	Provider       string
	KeyDisplayName string
	Delay          time.Duration
}{}

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Adds coordinates to the store addresses",
	Long: `Reads the address file from the data directory, geocodes every address and
writes the rows with their lat and lng next to it. Addresses that can't be
geocoded are logged and left out.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		table, err := geocoding.LoadTable(cfg.DataPath(cfg.AddressFile))
		if err != nil {
			return err
		}

		var apiKey string
		if geocodeOptions.Provider == geocoding.ProviderGoogle {
			if apiKey, err = geocoding.ResolveAPIKey(ctx, geocodeOptions.KeyDisplayName); err != nil {
				return err
			}
		}

		geocodeOptions.UserAgent = fmt.Sprintf("grocerydist/%s", Version)

		g, err := geocoding.New(geocodeOptions.Provider, apiKey, geocodeOptions.ClientOptions)
		if err != nil {
			return err
		}

		delay := geocodeOptions.Delay
		if delay == 0 && geocodeOptions.Provider == geocoding.ProviderNominatim {
			delay = time.Second
		}

		stats, err := geocoding.GeocodeAll(ctx, g, table, geocoding.BatchOptions{Delay: delay})
		if err != nil {
			return fmt.Errorf("geocoding addresses: %w", err)
		}

		output := cfg.DataPath(cfg.StoreFile)
		if err := geocoding.SaveTable(output, table); err != nil {
			return fmt.Errorf("saving %s: %w", output, err)
		}

		log.Printf("Geocoded %s of %s addresses (%s failed) into %s",
			textutils.FormatInt(int64(stats.Found)),
			textutils.FormatInt(int64(stats.Total)),
			textutils.FormatInt(int64(stats.NotFound)),
			output,
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)

	f := geocodeCmd.Flags()
	f.StringVar(&cfg.AddressFile, "addresses", cfg.AddressFile, "Address file inside the data directory")
	f.StringVar(&cfg.StoreFile, "output", cfg.StoreFile, "Output file inside the data directory")
	f.StringVar(&geocodeOptions.Provider, "provider", geocoding.ProviderGoogle, "Geocoding service: google or nominatim")
	f.StringVar(
		&geocodeOptions.KeyDisplayName,
		"key-display-name",
		geocoding.DefaultKeyDisplayName,
		"Display name of the API key retrieved via Application Default Credentials",
	)
	f.DurationVar(&geocodeOptions.Delay, "delay", 0, "Pause between requests. Defaults to 1s for nominatim")
	f.DurationVar(&geocodeOptions.Timeout, "timeout", 10*time.Second, "Timeout of every request")
	f.BoolVar(&geocodeOptions.EnableHTTPTrace, "trace-http", false, "Display HTTP requests-responses")
	f.BoolVar(&geocodeOptions.EnableHTTPBodyTrace, "trace-http-body", false, "Display HTTP requests-responses bodies")
}
