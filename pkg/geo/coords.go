package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLonLatPairs parses a Mapbox-style coordinate list: semicolon-separated
// "lon,lat" pairs, e.g. "-122.42,37.78;-122.27,37.80".
func ParseLonLatPairs(s string) ([]Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty coordinate list")
	}

	pairs := strings.Split(s, ";")
	points := make([]Location, 0, len(pairs))
	for i, pair := range pairs {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("coordinate %d: expected \"lon,lat\", got %q", i, pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: invalid longitude %q", i, parts[0])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: invalid latitude %q", i, parts[1])
		}
		loc := Location{Latitude: lat, Longitude: lon}
		if !loc.Valid() {
			return nil, fmt.Errorf("coordinate %d: out of range (lat %g, lon %g)", i, lat, lon)
		}
		points = append(points, loc)
	}
	return points, nil
}

// FormatLonLatPairs renders locations as semicolon-separated "lon,lat"
// pairs, the order Mapbox path parameters expect.
func FormatLonLatPairs(points []Location) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(FormatLonLat(p))
	}
	return b.String()
}

// FormatLonLat renders a single "lon,lat" pair.
func FormatLonLat(p Location) string {
	return strconv.FormatFloat(p.Longitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(p.Latitude, 'f', -1, 64)
}
