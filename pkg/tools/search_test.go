package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

const searchFixture = `{
	"features": [{
		"properties": {
			"mapbox_id": "poi.456",
			"name": "Blue Bottle Coffee",
			"full_address": "66 Mint St, San Francisco, CA 94103",
			"poi_category": ["coffee", "cafe"],
			"coordinates": {"latitude": 37.7823, "longitude": -122.4076}
		}
	}]
}`

func TestHandlePOISearch(t *testing.T) {
	var gotQuery map[string][]string
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query()
		w.Write([]byte(searchFixture))
	})

	result, err := r.HandlePOISearch(context.Background(), callReq("poi_search", map[string]any{
		"query":     "coffee",
		"latitude":  37.7749,
		"longitude": -122.4194,
	}))
	if err != nil {
		t.Fatalf("HandlePOISearch() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if got := gotQuery["q"]; len(got) != 1 || got[0] != "coffee" {
		t.Errorf("q = %v, want [coffee]", got)
	}
	if got := gotQuery["proximity"]; len(got) != 1 || got[0] != "-122.4194,37.7749" {
		t.Errorf("proximity = %v, want lon,lat pair", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "5" {
		t.Errorf("limit = %v, want default [5]", got)
	}

	var output POISearchOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Places) != 1 {
		t.Fatalf("got %d places, want 1", len(output.Places))
	}
	p := output.Places[0]
	if p.Category != "coffee" {
		t.Errorf("Category = %q, want first poi_category", p.Category)
	}
	if p.Distance <= 0 {
		t.Errorf("Distance = %f, want positive great-circle distance", p.Distance)
	}
}

func TestHandlePOISearchNoProximity(t *testing.T) {
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Has("proximity") {
			t.Error("proximity set without latitude/longitude arguments")
		}
		w.Write([]byte(searchFixture))
	})

	result, err := r.HandlePOISearch(context.Background(), callReq("poi_search", map[string]any{
		"query": "coffee",
	}))
	if err != nil {
		t.Fatalf("HandlePOISearch() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var output POISearchOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Places[0].Distance != 0 {
		t.Errorf("Distance = %f, want 0 without a proximity point", output.Places[0].Distance)
	}
}

func TestHandlePOISearchProximityAtOrigin(t *testing.T) {
	// (0,0) is a legitimate location in the Gulf of Guinea, not an
	// "unset" sentinel.
	var gotProximity string
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		gotProximity = req.URL.Query().Get("proximity")
		w.Write([]byte(searchFixture))
	})

	result, err := r.HandlePOISearch(context.Background(), callReq("poi_search", map[string]any{
		"query":     "lighthouse",
		"latitude":  0.0,
		"longitude": 0.0,
	}))
	if err != nil {
		t.Fatalf("HandlePOISearch() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if gotProximity != "0,0" {
		t.Errorf("proximity = %q, want \"0,0\"", gotProximity)
	}

	var output POISearchOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Places[0].Distance <= 0 {
		t.Errorf("Distance = %f, want distance from the origin proximity point", output.Places[0].Distance)
	}
}

func TestHandlePOISearchEmptyQuery(t *testing.T) {
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		t.Error("no request should reach the API for an empty query")
	})

	result, err := r.HandlePOISearch(context.Background(), callReq("poi_search", map[string]any{}))
	if err != nil {
		t.Fatalf("HandlePOISearch() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for empty query")
	}
}

func TestHandleCategorySearch(t *testing.T) {
	var gotPath string
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		w.Write([]byte(searchFixture))
	})

	result, err := r.HandleCategorySearch(context.Background(), callReq("category_search", map[string]any{
		"category": "coffee",
	}))
	if err != nil {
		t.Fatalf("HandleCategorySearch() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !strings.HasSuffix(gotPath, "/category/coffee") {
		t.Errorf("request path = %q, want category path", gotPath)
	}

	var output CategorySearchOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Category != "coffee" {
		t.Errorf("Category = %q, want coffee", output.Category)
	}
	if len(output.Places) != 1 {
		t.Errorf("got %d places, want 1", len(output.Places))
	}
}

func TestHandleCategorySearchNoResults(t *testing.T) {
	r, _ := newTestRegistry(t, 1<<20, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	result, err := r.HandleCategorySearch(context.Background(), callReq("category_search", map[string]any{
		"category": "unobtainium",
	}))
	if err != nil {
		t.Fatalf("HandleCategorySearch() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for no results")
	}
}
