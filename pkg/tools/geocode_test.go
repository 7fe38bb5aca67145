package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

const geocodeFixture = `{
	"features": [{
		"id": "address.123",
		"properties": {
			"name": "1600 Pennsylvania Avenue NW",
			"full_address": "1600 Pennsylvania Avenue NW, Washington, DC 20500, United States",
			"feature_type": "address",
			"coordinates": {"latitude": 38.8977, "longitude": -77.0365}
		}
	}]
}`

func TestHandleForwardGeocode(t *testing.T) {
	var gotQuery string
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query().Get("q")
		w.Write([]byte(geocodeFixture))
	})

	result, err := r.HandleForwardGeocode(context.Background(), callReq("forward_geocode", map[string]any{
		"query": "1600 Pennsylvania Avenue",
	}))
	if err != nil {
		t.Fatalf("HandleForwardGeocode() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if gotQuery != "1600 Pennsylvania Avenue" {
		t.Errorf("q = %q, want query passed through", gotQuery)
	}

	var output ForwardGeocodeOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Places) != 1 {
		t.Fatalf("got %d places, want 1", len(output.Places))
	}
	p := output.Places[0]
	if p.Location.Latitude != 38.8977 || p.Location.Longitude != -77.0365 {
		t.Errorf("Location = %v, want coordinates from fixture", p.Location)
	}
	if p.Address == "" {
		t.Error("Address is empty, want full_address mapped")
	}
}

func TestHandleForwardGeocodeEmptyQuery(t *testing.T) {
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		t.Error("no request should reach the API for an empty query")
	})

	result, err := r.HandleForwardGeocode(context.Background(), callReq("forward_geocode", map[string]any{}))
	if err != nil {
		t.Fatalf("HandleForwardGeocode() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for empty query")
	}
}

func TestHandleForwardGeocodeNoResults(t *testing.T) {
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	result, err := r.HandleForwardGeocode(context.Background(), callReq("forward_geocode", map[string]any{
		"query": "NonexistentPlace123456789",
	}))
	if err != nil {
		t.Fatalf("HandleForwardGeocode() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for no results")
	}
}

func TestHandleReverseGeocode(t *testing.T) {
	var gotLat, gotLon string
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		gotLat = req.URL.Query().Get("latitude")
		gotLon = req.URL.Query().Get("longitude")
		w.Write([]byte(geocodeFixture))
	})

	result, err := r.HandleReverseGeocode(context.Background(), callReq("reverse_geocode", map[string]any{
		"latitude":  38.8977,
		"longitude": -77.0365,
	}))
	if err != nil {
		t.Fatalf("HandleReverseGeocode() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if gotLat != "38.8977" || gotLon != "-77.0365" {
		t.Errorf("query lat/lon = %q/%q, want coordinates passed through", gotLat, gotLon)
	}

	var output ReverseGeocodeOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Place.Name == "" {
		t.Error("Place.Name is empty")
	}
}

func TestHandleReverseGeocodeInvalidCoordinates(t *testing.T) {
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		t.Error("no request should reach the API for invalid coordinates")
	})

	result, err := r.HandleReverseGeocode(context.Background(), callReq("reverse_geocode", map[string]any{
		"latitude":  97.0,
		"longitude": 0.0,
	}))
	if err != nil {
		t.Fatalf("HandleReverseGeocode() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for out-of-range latitude")
	}
}
