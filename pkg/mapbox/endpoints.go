package mapbox

import (
	"fmt"
	"net/url"

	"github.com/mapgrid/mapmcp/pkg/geo"
)

// Routing profiles accepted by the Directions, Matrix and Optimization APIs.
const (
	ProfileDriving        = "driving"
	ProfileDrivingTraffic = "driving-traffic"
	ProfileWalking        = "walking"
	ProfileCycling        = "cycling"
)

// ValidProfile reports whether profile names a supported routing profile.
func ValidProfile(profile string) bool {
	switch profile {
	case ProfileDriving, ProfileDrivingTraffic, ProfileWalking, ProfileCycling:
		return true
	}
	return false
}

// DirectionsPath builds the Directions API path for a coordinate sequence.
func DirectionsPath(profile string, points []geo.Location) string {
	return fmt.Sprintf("/directions/v5/mapbox/%s/%s",
		profile, geo.FormatLonLatPairs(points))
}

// MatrixPath builds the Matrix API path for a coordinate sequence.
func MatrixPath(profile string, points []geo.Location) string {
	return fmt.Sprintf("/directions-matrix/v1/mapbox/%s/%s",
		profile, geo.FormatLonLatPairs(points))
}

// IsochronePath builds the Isochrone API path for a center point.
func IsochronePath(profile string, center geo.Location) string {
	return fmt.Sprintf("/isochrone/v1/mapbox/%s/%s",
		profile, geo.FormatLonLat(center))
}

// OptimizePath builds the Optimization API path for a coordinate sequence.
func OptimizePath(profile string, points []geo.Location) string {
	return fmt.Sprintf("/optimized-trips/v1/mapbox/%s/%s",
		profile, geo.FormatLonLatPairs(points))
}

// Geocoding v6 and Search Box paths.
const (
	ForwardGeocodePath = "/search/geocode/v6/forward"
	ReverseGeocodePath = "/search/geocode/v6/reverse"
	SearchForwardPath  = "/search/searchbox/v1/forward"
)

// CategorySearchPath builds the Search Box category listing path.
func CategorySearchPath(category string) string {
	return "/search/searchbox/v1/category/" + url.PathEscape(category)
}
