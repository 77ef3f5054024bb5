// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package render draws the distance grid as a Leaflet choropleth.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/jcodagnone/grocerydist/colormap"
	"github.com/jcodagnone/grocerydist/config"
	"github.com/jcodagnone/grocerydist/grid"
	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/paulmach/orb/geojson"
)

// Layer names shown in the layer control.
const (
	GridLayerName     = "Distance to closest grocery store"
	BoundaryLayerName = "Richmond boundaries"
	StoreLayerName    = "Grocery stores"
	LegendCaption     = "Distance to nearest grocery store (miles)"
)

// PropertyFillColor is the feature property carrying the cell color.
const PropertyFillColor = "fillColor"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html"))

// Tiles is the base map layer.
type Tiles struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Name        string `json:"name"`
}

// Page is everything drawn on the map.
type Page struct {
	Title    string
	Center   spatial.Point
	Zoom     int
	Tiles    Tiles
	Grid     *geojson.FeatureCollection
	Boundary json.RawMessage
	Markers  []Marker
	Legend   []colormap.Bin
	Caption  string
}

// mapData is the JSON document consumed by the page script.
type mapData struct {
	Center   [2]float64                 `json:"center"`
	Zoom     int                        `json:"zoom"`
	Tiles    Tiles                      `json:"tiles"`
	Grid     *geojson.FeatureCollection `json:"grid"`
	Boundary json.RawMessage            `json:"boundary,omitempty"`
	Markers  []Marker                   `json:"markers"`
	Legend   []colormap.Bin             `json:"legend"`
	Caption  string                     `json:"caption"`
	Layers   map[string]string          `json:"layers"`
}

// ColorGrid returns the grid features with the fill color of every cell.
func ColorGrid(g *grid.Grid, cmap colormap.Colormap, vmin, vmax float64) *geojson.FeatureCollection {
	fc := g.FeatureCollection()

	for i, f := range fc.Features {
		f.Properties[PropertyFillColor] = colormap.ColorFor(g.Cells[i].Distance, vmin, vmax, cmap)
	}

	return fc
}

// NewPage assembles the map of a computed grid.
func NewPage(cfg *config.Config, g *grid.Grid, cmap *colormap.Step, boundary json.RawMessage, markers []Marker) *Page {
	return &Page{
		Title:  "Distance to grocery stores",
		Center: cfg.CityCenter,
		Zoom:   cfg.Zoom,
		Tiles: Tiles{
			URL:         cfg.TileURL,
			Attribution: cfg.TileAttribution,
			Name:        cfg.TileName,
		},
		Grid:     ColorGrid(g, cmap, cfg.MinVal, cfg.MaxVal),
		Boundary: boundary,
		Markers:  markers,
		Legend:   cmap.Legend(),
		Caption:  LegendCaption,
	}
}

// Render writes the page as a standalone HTML document.
func Render(w io.Writer, page *Page) error {
	data, err := json.Marshal(mapData{
		Center:   [2]float64{page.Center.Lat, page.Center.Lng},
		Zoom:     page.Zoom,
		Tiles:    page.Tiles,
		Grid:     page.Grid,
		Boundary: page.Boundary,
		Markers:  page.Markers,
		Legend:   page.Legend,
		Caption:  page.Caption,
		Layers: map[string]string{
			"grid":     GridLayerName,
			"boundary": BoundaryLayerName,
			"stores":   StoreLayerName,
		},
	})
	if err != nil {
		return fmt.Errorf("marshaling map data: %w", err)
	}

	// json.Marshal escapes <, > and &, so the document is safe inside <script>
	err = pageTemplate.Execute(w, struct {
		Title string
		Data  template.JS
	}{
		Title: page.Title,
		Data:  template.JS(data),
	})
	if err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}

	return nil
}

// Save renders the page into path, creating its directory when needed.
func Save(path string, page *Page) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Render(f, page); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}
