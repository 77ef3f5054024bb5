// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

// Package server previews the rendered map and its data over HTTP.
package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/grocerydist/grid"
	"github.com/jcodagnone/grocerydist/render"
	"github.com/jcodagnone/grocerydist/spatial"
	"github.com/jcodagnone/grocerydist/store"
)

type Server struct {
	page   []byte
	grid   *grid.Grid
	fc     []byte
	stores []store.Store
}

// NewServer renders page once and serves it with the data it was built from.
func NewServer(page *render.Page, g *grid.Grid, stores []store.Store) (*Server, error) {
	var buf bytes.Buffer
	if err := render.Render(&buf, page); err != nil {
		return nil, err
	}

	fc, err := page.Grid.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling grid: %w", err)
	}

	return &Server{page: buf.Bytes(), grid: g, fc: fc, stores: stores}, nil
}

// Routes registers the handlers on r.
func (s *Server) Routes(r *gin.Engine) {
	r.GET("/", s.mapView)
	r.GET("/api/grid", s.getGrid)
	r.GET("/api/grid/cells/:id", s.getCell)
	r.GET("/api/stores", s.listStores)
	r.GET("/api/nearest", s.nearest)
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	r := gin.Default()
	s.Routes(r)

	log.Printf("Serving the map on http://%s/", addr)

	return r.Run(addr)
}

func (s *Server) mapView(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", s.page)
}

func (s *Server) getGrid(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/geo+json", s.fc)
}

// cellResponse is a cell as served over JSON; no data is a null distance.
type cellResponse struct {
	ID       int           `json:"id"`
	Anchor   spatial.Point `json:"anchor"`
	Distance *float64      `json:"distance"`
	Store    string        `json:"store"`
	H3       string        `json:"h3,omitempty"`
}

func (s *Server) getCell(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid cell id"})

		return
	}

	cell, ok := s.grid.Cell(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("cell %d not found", id)})

		return
	}

	resp := cellResponse{ID: cell.ID, Anchor: cell.Anchor, Store: cell.Store}
	if !cell.NoData() {
		resp.Distance = &cell.Distance
	}

	if cell.H3 != 0 {
		resp.H3 = cell.H3.String()
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) listStores(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.stores)
}

func (s *Server) nearest(ctx *gin.Context) {
	var p spatial.Point

	var err error
	if p.Lat, err = strconv.ParseFloat(ctx.Query("lat"), 64); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat query parameter must be a number"})

		return
	}

	if p.Lng, err = strconv.ParseFloat(ctx.Query("lng"), 64); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lng query parameter must be a number"})

		return
	}

	if err := p.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	match, err := grid.Nearest(p, s.stores)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"point":    p,
		"distance": match.Distance,
		"store":    match.Store,
		"inside":   s.grid.Box.Contains(p),
	})
}
