// Package tools provides the Mapbox MCP tool implementations.
package tools

import "github.com/mapgrid/mapmcp/pkg/geo"

// Place represents a named location returned by the geocoding and search
// tools.
type Place struct {
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"name"`
	Location  geo.Location `json:"location"`
	Address   string       `json:"address,omitempty"`
	Category  string       `json:"category,omitempty"`
	Relevance float64      `json:"relevance,omitempty"`
	Distance  float64      `json:"distance_meters,omitempty"` // from the query's proximity point
}

// Route represents a single routing alternative.
type Route struct {
	Distance float64          `json:"distance_meters"`
	Duration float64          `json:"duration_seconds"`
	Summary  string           `json:"summary,omitempty"`
	Steps    []string         `json:"steps,omitempty"`
	Geometry []geo.Location   `json:"geometry,omitempty"`
	Bounds   *geo.BoundingBox `json:"bounds,omitempty"`
}
