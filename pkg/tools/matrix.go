package tools

import (
	"context"
	"net/url"

	"github.com/mapgrid/mapmcp/pkg/geo"
	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mark3labs/mcp-go/mcp"
)

// MatrixOutput defines the output format for travel time/distance matrices.
// Durations are seconds, distances meters; row i is travel from source i to
// each destination.
type MatrixOutput struct {
	Durations [][]float64    `json:"durations,omitempty"`
	Distances [][]float64    `json:"distances,omitempty"`
	Sources   []geo.Location `json:"sources"`
}

type matrixResponse struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Durations [][]float64 `json:"durations"`
	Distances [][]float64 `json:"distances"`
}

// MatrixTool returns a tool definition for travel time/distance matrices
func MatrixTool() mcp.Tool {
	return mcp.NewTool("matrix",
		mcp.WithDescription("Compute travel times and distances between sets of locations"),
		mcp.WithString("coordinates",
			mcp.Required(),
			mcp.Description("Semicolon-separated \"longitude,latitude\" pairs (2 to 25 points)"),
		),
		mcp.WithString("profile",
			mcp.Description("Routing profile: driving, driving-traffic, walking, or cycling (default driving)"),
		),
	)
}

// HandleMatrix implements the matrix functionality
func (r *Registry) HandleMatrix(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "matrix")

	coordinates := mcp.ParseString(req, "coordinates", "")
	profile := mcp.ParseString(req, "profile", mapbox.ProfileDriving)

	if !mapbox.ValidProfile(profile) {
		return ErrorResponse("Profile must be one of: driving, driving-traffic, walking, cycling"), nil
	}
	points, err := geo.ParseLonLatPairs(coordinates)
	if err != nil {
		return ErrorResponse("Invalid coordinates: " + err.Error()), nil
	}
	if len(points) < 2 || len(points) > 25 {
		return ErrorResponse("Matrix requires between 2 and 25 coordinates"), nil
	}

	q := url.Values{}
	q.Set("annotations", "duration,distance")

	var apiResp matrixResponse
	if err := r.client.GetJSON(ctx, mapbox.MatrixPath(profile, points), q, &apiResp); err != nil {
		logger.Error("matrix request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Matrix", err)), nil
	}
	if apiResp.Code != "Ok" {
		return ErrorWithGuidance(NewAPIError("Matrix", 0, apiResp.Message, "")), nil
	}

	output := MatrixOutput{
		Durations: apiResp.Durations,
		Distances: apiResp.Distances,
		Sources:   points,
	}
	return r.deliver("matrix", output)
}
