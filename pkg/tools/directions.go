package tools

import (
	"context"
	"net/url"

	"github.com/mapgrid/mapmcp/pkg/geo"
	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mark3labs/mcp-go/mcp"
)

// DirectionsInput defines the input parameters for the directions tool
type DirectionsInput struct {
	Coordinates  string `json:"coordinates"`
	Profile      string `json:"profile"`
	Alternatives bool   `json:"alternatives"`
	Steps        bool   `json:"steps"`
}

// DirectionsOutput defines the output format for directions
type DirectionsOutput struct {
	Routes []Route `json:"routes"`
}

// directionsResponse mirrors the Directions API response fields we consume
type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
		Legs     []struct {
			Summary string `json:"summary"`
			Steps   []struct {
				Maneuver struct {
					Instruction string `json:"instruction"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// DirectionsTool returns a tool definition for routing between locations
func DirectionsTool() mcp.Tool {
	return mcp.NewTool("directions",
		mcp.WithDescription("Get turn-by-turn directions between two or more locations"),
		mcp.WithString("coordinates",
			mcp.Required(),
			mcp.Description("Semicolon-separated \"longitude,latitude\" pairs, e.g. \"-122.42,37.78;-122.27,37.80\""),
		),
		mcp.WithString("profile",
			mcp.Description("Routing profile: driving, driving-traffic, walking, or cycling (default driving)"),
		),
		mcp.WithBoolean("alternatives",
			mcp.Description("Whether to return alternative routes"),
		),
		mcp.WithBoolean("steps",
			mcp.Description("Whether to include turn-by-turn instructions"),
		),
	)
}

// HandleDirections implements the routing functionality
func (r *Registry) HandleDirections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "directions")

	input := DirectionsInput{
		Coordinates:  mcp.ParseString(req, "coordinates", ""),
		Profile:      mcp.ParseString(req, "profile", mapbox.ProfileDriving),
		Alternatives: mcp.ParseBoolean(req, "alternatives", false),
		Steps:        mcp.ParseBoolean(req, "steps", false),
	}

	if !mapbox.ValidProfile(input.Profile) {
		return ErrorResponse("Profile must be one of: driving, driving-traffic, walking, cycling"), nil
	}
	points, err := geo.ParseLonLatPairs(input.Coordinates)
	if err != nil {
		return ErrorResponse("Invalid coordinates: " + err.Error()), nil
	}
	if len(points) < 2 {
		return ErrorResponse("At least two coordinates are required"), nil
	}

	q := url.Values{}
	q.Set("geometries", "polyline")
	q.Set("overview", "full")
	if input.Alternatives {
		q.Set("alternatives", "true")
	}
	if input.Steps {
		q.Set("steps", "true")
	}

	var apiResp directionsResponse
	if err := r.client.GetJSON(ctx, mapbox.DirectionsPath(input.Profile, points), q, &apiResp); err != nil {
		logger.Error("directions request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Directions", err)), nil
	}
	if apiResp.Code != "Ok" {
		apiErr := NewAPIError("Directions", 0, apiResp.Message, GuidanceNoRoute)
		return ErrorWithGuidance(apiErr), nil
	}

	output := DirectionsOutput{Routes: make([]Route, 0, len(apiResp.Routes))}
	for _, rt := range apiResp.Routes {
		route := Route{
			Distance: rt.Distance,
			Duration: rt.Duration,
			Geometry: geo.DecodePolyline(rt.Geometry, geo.Precision5),
		}
		route.Bounds = geo.BoundsOf(route.Geometry)
		for _, leg := range rt.Legs {
			if route.Summary == "" {
				route.Summary = leg.Summary
			}
			for _, step := range leg.Steps {
				if step.Maneuver.Instruction != "" {
					route.Steps = append(route.Steps, step.Maneuver.Instruction)
				}
			}
		}
		output.Routes = append(output.Routes, route)
	}

	return r.deliver("directions", output)
}
