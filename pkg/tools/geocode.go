package tools

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mapgrid/mapmcp/pkg/geo"
	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mark3labs/mcp-go/mcp"
)

// geocodeResponse mirrors the Geocoding v6 feature collection fields we use
type geocodeResponse struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			Name        string `json:"name"`
			FullAddress string `json:"full_address"`
			FeatureType string `json:"feature_type"`
			Coordinates struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"coordinates"`
		} `json:"properties"`
	} `json:"features"`
}

func (g *geocodeResponse) places() []Place {
	out := make([]Place, 0, len(g.Features))
	for _, f := range g.Features {
		out = append(out, Place{
			ID:   f.ID,
			Name: f.Properties.Name,
			Location: geo.Location{
				Latitude:  f.Properties.Coordinates.Latitude,
				Longitude: f.Properties.Coordinates.Longitude,
			},
			Address:  f.Properties.FullAddress,
			Category: f.Properties.FeatureType,
		})
	}
	return out
}

// ForwardGeocodeOutput defines the output format for geocoded addresses
type ForwardGeocodeOutput struct {
	Places []Place `json:"places"`
}

// ForwardGeocodeTool returns a tool definition for geocoding addresses
func ForwardGeocodeTool() mcp.Tool {
	return mcp.NewTool("forward_geocode",
		mcp.WithDescription("Convert an address or place name to geographic coordinates"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The address or place name to geocode"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-10, default 5)"),
		),
	)
}

// HandleForwardGeocode implements the forward geocoding functionality
func (r *Registry) HandleForwardGeocode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "forward_geocode")

	query := mcp.ParseString(req, "query", "")
	limit := int(mcp.ParseFloat64(req, "limit", 5))

	if query == "" {
		return ErrorResponse("Query must not be empty"), nil
	}
	if limit < 1 || limit > 10 {
		limit = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))

	var apiResp geocodeResponse
	if err := r.client.GetJSON(ctx, mapbox.ForwardGeocodePath, q, &apiResp); err != nil {
		logger.Error("geocoding request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Geocoding", err)), nil
	}
	if len(apiResp.Features) == 0 {
		return ErrorResponse("No results found for the query"), nil
	}

	return r.deliver("forward_geocode", ForwardGeocodeOutput{Places: apiResp.places()})
}

// ReverseGeocodeOutput defines the output format for reverse geocoded coordinates
type ReverseGeocodeOutput struct {
	Place Place `json:"place"`
}

// ReverseGeocodeTool returns a tool definition for reverse geocoding
func ReverseGeocodeTool() mcp.Tool {
	return mcp.NewTool("reverse_geocode",
		mcp.WithDescription("Convert geographic coordinates to a human-readable address"),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("The latitude coordinate"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("The longitude coordinate"),
		),
	)
}

// HandleReverseGeocode implements the reverse geocoding functionality
func (r *Registry) HandleReverseGeocode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "reverse_geocode")

	loc := geo.Location{
		Latitude:  mcp.ParseFloat64(req, "latitude", 0),
		Longitude: mcp.ParseFloat64(req, "longitude", 0),
	}
	if !loc.Valid() {
		return ErrorResponse("Latitude must be within [-90,90] and longitude within [-180,180]"), nil
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("limit", "1")

	var apiResp geocodeResponse
	if err := r.client.GetJSON(ctx, mapbox.ReverseGeocodePath, q, &apiResp); err != nil {
		logger.Error("reverse geocoding request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Geocoding", err)), nil
	}
	places := apiResp.places()
	if len(places) == 0 {
		return ErrorResponse("No address found at the given coordinates"), nil
	}

	return r.deliver("reverse_geocode", ReverseGeocodeOutput{Place: places[0]})
}
