package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/mapgrid/mapmcp/pkg/geo"
	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mark3labs/mcp-go/mcp"
)

// IsochroneOutput wraps the GeoJSON feature collection returned by the
// Isochrone API. Contour polygons get large quickly, so this tool is the
// most frequent user of the temporary resource store.
type IsochroneOutput struct {
	Center   geo.Location    `json:"center"`
	Profile  string          `json:"profile"`
	Contours json.RawMessage `json:"contours"`
}

// IsochroneTool returns a tool definition for reachability contours
func IsochroneTool() mcp.Tool {
	return mcp.NewTool("isochrone",
		mcp.WithDescription("Compute areas reachable within given travel times or distances from a point"),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("The latitude of the center point"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("The longitude of the center point"),
		),
		mcp.WithString("contours_minutes",
			mcp.Description("Comma-separated travel times in minutes, e.g. \"5,10,15\" (max 4 values, max 60)"),
		),
		mcp.WithString("contours_meters",
			mcp.Description("Comma-separated travel distances in meters; used when contours_minutes is not set"),
		),
		mcp.WithString("profile",
			mcp.Description("Routing profile: driving, walking, or cycling (default driving)"),
		),
		mcp.WithBoolean("polygons",
			mcp.Description("Return contours as polygons instead of line strings"),
		),
	)
}

// HandleIsochrone implements the isochrone functionality
func (r *Registry) HandleIsochrone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "isochrone")

	center := geo.Location{
		Latitude:  mcp.ParseFloat64(req, "latitude", 0),
		Longitude: mcp.ParseFloat64(req, "longitude", 0),
	}
	minutes := strings.TrimSpace(mcp.ParseString(req, "contours_minutes", ""))
	meters := strings.TrimSpace(mcp.ParseString(req, "contours_meters", ""))
	profile := mcp.ParseString(req, "profile", mapbox.ProfileDriving)
	polygons := mcp.ParseBoolean(req, "polygons", false)

	if !center.Valid() {
		return ErrorResponse("Latitude must be within [-90,90] and longitude within [-180,180]"), nil
	}
	if !mapbox.ValidProfile(profile) || profile == mapbox.ProfileDrivingTraffic {
		return ErrorResponse("Profile must be one of: driving, walking, cycling"), nil
	}
	if minutes == "" && meters == "" {
		return ErrorResponse("Either contours_minutes or contours_meters is required"), nil
	}

	q := url.Values{}
	if minutes != "" {
		q.Set("contours_minutes", minutes)
	} else {
		q.Set("contours_meters", meters)
	}
	if polygons {
		q.Set("polygons", "true")
	}

	var contours json.RawMessage
	if err := r.client.GetJSON(ctx, mapbox.IsochronePath(profile, center), q, &contours); err != nil {
		logger.Error("isochrone request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Isochrone", err)), nil
	}

	output := IsochroneOutput{
		Center:   center,
		Profile:  profile,
		Contours: contours,
	}
	return r.deliver("isochrone", output)
}
