package geo

import "testing"

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		expected   float64 // meters
		tolerance  float64
	}{
		{
			name: "Same point",
			lat1: 37.7749, lon1: -122.4194,
			lat2: 37.7749, lon2: -122.4194,
			expected:  0,
			tolerance: 0.001,
		},
		{
			name: "SF to Oakland",
			lat1: 37.7749, lon1: -122.4194,
			lat2: 37.8044, lon2: -122.2711,
			expected:  13430,
			tolerance: 200,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			expected:  343550,
			tolerance: 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if !almostEqual(got, tt.expected, tt.tolerance) {
				t.Errorf("HaversineDistance() = %f, want %f ± %f", got, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestParseLonLatPairs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Location
		wantErr bool
	}{
		{
			name:  "Single pair",
			input: "-122.4194,37.7749",
			want:  []Location{{Latitude: 37.7749, Longitude: -122.4194}},
		},
		{
			name:  "Multiple pairs with spaces",
			input: "-122.42,37.78; -122.27,37.80",
			want: []Location{
				{Latitude: 37.78, Longitude: -122.42},
				{Latitude: 37.80, Longitude: -122.27},
			},
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Missing latitude",
			input:   "-122.42",
			wantErr: true,
		},
		{
			name:    "Latitude out of range",
			input:   "-122.42,97.0",
			wantErr: true,
		},
		{
			name:    "Not a number",
			input:   "lon,lat",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLonLatPairs(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLonLatPairs(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d points, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	if got := BoundsOf(nil); got != nil {
		t.Errorf("BoundsOf(nil) = %+v, want nil", got)
	}

	bb := BoundsOf([]Location{
		{Latitude: 37.78, Longitude: -122.42},
		{Latitude: 37.80, Longitude: -122.27},
		{Latitude: 37.77, Longitude: -122.45},
	})
	if bb == nil {
		t.Fatal("BoundsOf() = nil for non-empty points")
	}
	if bb.MinLat != 37.77 || bb.MaxLat != 37.80 {
		t.Errorf("latitude bounds = [%f, %f], want [37.77, 37.80]", bb.MinLat, bb.MaxLat)
	}
	if bb.MinLon != -122.45 || bb.MaxLon != -122.27 {
		t.Errorf("longitude bounds = [%f, %f], want [-122.45, -122.27]", bb.MinLon, bb.MaxLon)
	}
}

func TestFormatLonLatPairsRoundTrip(t *testing.T) {
	points := []Location{
		{Latitude: 37.7749, Longitude: -122.4194},
		{Latitude: 37.8044, Longitude: -122.2711},
	}

	formatted := FormatLonLatPairs(points)
	parsed, err := ParseLonLatPairs(formatted)
	if err != nil {
		t.Fatalf("ParseLonLatPairs(%q) error = %v", formatted, err)
	}
	for i := range points {
		if parsed[i] != points[i] {
			t.Errorf("point %d = %v, want %v", i, parsed[i], points[i])
		}
	}
}
