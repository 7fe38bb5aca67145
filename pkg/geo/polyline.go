package geo

import "math"

// Polyline precisions. Mapbox Directions returns polyline (1e-5) by default
// and polyline6 (1e-6) when requested.
const (
	Precision5 = 1e5
	Precision6 = 1e6
)

// DecodePolyline decodes an encoded polyline string to a slice of locations
// using Google's Polyline Algorithm Format at the given precision.
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
func DecodePolyline(encoded string, precision float64) []Location {
	if len(encoded) == 0 {
		return []Location{}
	}

	points := make([]Location, 0, len(encoded)/4+1)
	index := 0
	lat := 0
	lng := 0
	strLen := len(encoded)

	for index < strLen {
		// Latitude delta
		result := 0
		shift := 0
		for {
			if index >= strLen {
				break
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		lat += (result >> 1) ^ (-(result & 1))

		// Longitude delta
		result = 0
		shift = 0
		for {
			if index >= strLen {
				break
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		lng += (result >> 1) ^ (-(result & 1))

		points = append(points, Location{
			Latitude:  float64(lat) / precision,
			Longitude: float64(lng) / precision,
		})
	}
	return points
}

// EncodePolyline encodes a slice of locations into a polyline string at the
// given precision.
func EncodePolyline(points []Location, precision float64) string {
	if len(points) == 0 {
		return ""
	}

	result := make([]byte, 0, len(points)*6)
	prevLat := 0
	prevLng := 0

	for _, point := range points {
		lat := int(math.Round(point.Latitude * precision))
		lng := int(math.Round(point.Longitude * precision))

		result = append(result, encodeSigned(lat-prevLat)...)
		result = append(result, encodeSigned(lng-prevLng)...)

		prevLat = lat
		prevLng = lng
	}
	return string(result)
}

// encodeSigned encodes a signed value using zigzag encoding followed by
// base-64-ish chunking per the polyline algorithm.
func encodeSigned(value int) []byte {
	s := value << 1
	if value < 0 {
		s = ^s
	}

	var buf []byte
	for s >= 0x20 {
		buf = append(buf, byte((0x20|(s&0x1f))+63))
		s >>= 5
	}
	buf = append(buf, byte(s+63))
	return buf
}
