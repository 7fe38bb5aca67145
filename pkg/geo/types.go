// Package geo provides common geographic types and calculations shared by
// the Mapbox tool implementations.
package geo

import "math"

// EarthRadius is the mean radius of Earth according to WGS-84 in meters
const EarthRadius = 6371000.0

// Location represents a geographic coordinate (latitude and longitude)
// with standardized JSON field names.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is within WGS-84 bounds.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// HaversineDistance calculates the great-circle distance between two points
// on the Earth's surface given their latitude and longitude in degrees.
// The result is returned in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadius * c
}

// Distance is the great-circle distance in meters between two locations.
func Distance(a, b Location) float64 {
	return HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// BoundingBox represents a geographic bounding box with southwest and
// northeast corners.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// NewBoundingBox creates a new empty bounding box. The inverted initial
// corners make the first Extend set all four edges.
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{
		MinLat: 90.0,
		MinLon: 180.0,
		MaxLat: -90.0,
		MaxLon: -180.0,
	}
}

// Extend grows the bounding box to include the given location.
func (bb *BoundingBox) Extend(loc Location) {
	if loc.Latitude < bb.MinLat {
		bb.MinLat = loc.Latitude
	}
	if loc.Latitude > bb.MaxLat {
		bb.MaxLat = loc.Latitude
	}
	if loc.Longitude < bb.MinLon {
		bb.MinLon = loc.Longitude
	}
	if loc.Longitude > bb.MaxLon {
		bb.MaxLon = loc.Longitude
	}
}

// BoundsOf returns the bounding box of a point sequence, or nil for an
// empty one.
func BoundsOf(points []Location) *BoundingBox {
	if len(points) == 0 {
		return nil
	}
	bb := NewBoundingBox()
	for _, p := range points {
		bb.Extend(p)
	}
	return bb
}
