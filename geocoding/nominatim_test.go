// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		switch r.URL.Query().Get("q") {
		case "ALDI Richmond":
			_, _ = w.Write([]byte(`[{"lat": "39.8077", "lon": "-84.8925", "display_name": "ALDI, Richmond", "importance": 0.3}]`))
		case "broken":
			_, _ = w.Write([]byte(`[{"lat": "north", "lon": "-84.8925"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	var trace bytes.Buffer

	n := NewNominatimGeocoder(NewHTTPClient(&ClientOptions{EnableHTTPTrace: true, TraceWriter: &trace}))
	n.endpoint = srv.URL

	res, err := n.Geocode(context.Background(), "ALDI Richmond")
	require.NoError(t, err)
	assert.Equal(t, spatial.Point{Lat: 39.8077, Lng: -84.8925}, res.Point)
	assert.Equal(t, "medium", res.Confidence)
	assert.Equal(t, ProviderNominatim, res.Provider)
	assert.Contains(t, trace.String(), "> GET /?")
	assert.Contains(t, trace.String(), "< RESPONSE: [")

	_, err = n.Geocode(context.Background(), "atlantis")
	assert.True(t, IsNotFoundError(err))

	_, err = n.Geocode(context.Background(), "broken")
	assert.ErrorContains(t, err, "parsing latitude")
}
