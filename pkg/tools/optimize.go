package tools

import (
	"context"
	"net/url"

	"github.com/mapgrid/mapmcp/pkg/geo"
	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mark3labs/mcp-go/mcp"
)

// OptimizeRouteOutput defines the output format for waypoint optimization.
// Order lists the input coordinate indexes in optimal visiting order.
type OptimizeRouteOutput struct {
	Order     []int          `json:"order"`
	Waypoints []geo.Location `json:"waypoints"`
	Distance  float64        `json:"distance_meters"`
	Duration  float64        `json:"duration_seconds"`
	Geometry  []geo.Location `json:"geometry,omitempty"`
}

type optimizeResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Waypoints []struct {
		WaypointIndex int        `json:"waypoint_index"`
		Location      [2]float64 `json:"location"` // lon, lat
	} `json:"waypoints"`
	Trips []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"trips"`
}

// OptimizeRouteTool returns a tool definition for waypoint optimization
func OptimizeRouteTool() mcp.Tool {
	return mcp.NewTool("optimize_route",
		mcp.WithDescription("Find the optimal visiting order for a set of waypoints (round trip)"),
		mcp.WithString("coordinates",
			mcp.Required(),
			mcp.Description("Semicolon-separated \"longitude,latitude\" pairs (2 to 12 points)"),
		),
		mcp.WithString("profile",
			mcp.Description("Routing profile: driving, walking, or cycling (default driving)"),
		),
		mcp.WithBoolean("roundtrip",
			mcp.Description("Return to the first waypoint at the end (default true)"),
		),
	)
}

// HandleOptimizeRoute implements the waypoint optimization functionality
func (r *Registry) HandleOptimizeRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "optimize_route")

	coordinates := mcp.ParseString(req, "coordinates", "")
	profile := mcp.ParseString(req, "profile", mapbox.ProfileDriving)
	roundtrip := mcp.ParseBoolean(req, "roundtrip", true)

	if !mapbox.ValidProfile(profile) || profile == mapbox.ProfileDrivingTraffic {
		return ErrorResponse("Profile must be one of: driving, walking, cycling"), nil
	}
	points, err := geo.ParseLonLatPairs(coordinates)
	if err != nil {
		return ErrorResponse("Invalid coordinates: " + err.Error()), nil
	}
	if len(points) < 2 || len(points) > 12 {
		return ErrorResponse("Optimization requires between 2 and 12 coordinates"), nil
	}

	q := url.Values{}
	q.Set("geometries", "polyline")
	q.Set("overview", "full")
	if !roundtrip {
		q.Set("roundtrip", "false")
		q.Set("source", "first")
		q.Set("destination", "last")
	}

	var apiResp optimizeResponse
	if err := r.client.GetJSON(ctx, mapbox.OptimizePath(profile, points), q, &apiResp); err != nil {
		logger.Error("optimization request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Optimization", err)), nil
	}
	if apiResp.Code != "Ok" || len(apiResp.Trips) == 0 {
		return ErrorWithGuidance(NewAPIError("Optimization", 0, apiResp.Message, GuidanceNoRoute)), nil
	}

	trip := apiResp.Trips[0]
	output := OptimizeRouteOutput{
		Order:     make([]int, 0, len(apiResp.Waypoints)),
		Waypoints: make([]geo.Location, 0, len(apiResp.Waypoints)),
		Distance:  trip.Distance,
		Duration:  trip.Duration,
		Geometry:  geo.DecodePolyline(trip.Geometry, geo.Precision5),
	}
	for _, wp := range apiResp.Waypoints {
		output.Order = append(output.Order, wp.WaypointIndex)
		output.Waypoints = append(output.Waypoints, geo.Location{
			Latitude:  wp.Location[1],
			Longitude: wp.Location[0],
		})
	}

	return r.deliver("optimize_route", output)
}
