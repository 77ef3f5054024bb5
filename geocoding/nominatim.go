// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jcodagnone/grocerydist/spatial"
)

const nominatimEndpoint = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder queries the OpenStreetMap Nominatim search API.
// The public instance allows one request per second; callers must pace.
type NominatimGeocoder struct {
	endpoint   string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a new Nominatim geocoder.
func NewNominatimGeocoder(httpClient *http.Client) *NominatimGeocoder {
	if httpClient == nil {
		httpClient = NewHTTPClient(nil)
	}

	return &NominatimGeocoder{
		endpoint:   nominatimEndpoint,
		httpClient: httpClient,
	}
}

type nominatimResult struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

// Geocode implements Geocoder.
func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "")
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, &GeocodingError{Type: ErrorTypeNotFound, Message: address, Err: ErrNoResults}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", results[0].Lat, err)
	}

	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", results[0].Lon, err)
	}

	confidence := "low"

	switch {
	case results[0].Importance >= 0.5:
		confidence = "high"
	case results[0].Importance >= 0.2:
		confidence = "medium"
	}

	return &Result{
		Point:       spatial.Point{Lat: lat, Lng: lng},
		Confidence:  confidence,
		Provider:    ProviderNominatim,
		DisplayName: results[0].DisplayName,
	}, nil
}
