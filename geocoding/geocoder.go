// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding turns store addresses into coordinates.
package geocoding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcodagnone/grocerydist/spatial"
)

// ErrNoResults is returned when a provider answers but finds nothing.
var ErrNoResults = errors.New("no results")

// Provider names.
const (
	ProviderGoogle    = "google"
	ProviderNominatim = "nominatim"
)

// Result represents a geocoding result from any provider.
type Result struct {
	spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// New returns the geocoder for the named provider.
func New(provider, apiKey string, client ClientOptions) (Geocoder, error) {
	switch provider {
	case ProviderGoogle, "":
		if apiKey == "" {
			return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google maps requires an API key"}
		}

		return NewGoogleMapsGeocoder(apiKey, NewHTTPClient(&client)), nil
	case ProviderNominatim:
		return NewNominatimGeocoder(NewHTTPClient(&client)), nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q (valid: %s, %s)", provider, ProviderGoogle, ProviderNominatim)
	}
}
