package tools

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mapgrid/mapmcp/pkg/geo"
	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mark3labs/mcp-go/mcp"
)

// searchResponse mirrors the Search Box feature collection fields we use
type searchResponse struct {
	Features []struct {
		Properties struct {
			MapboxID    string   `json:"mapbox_id"`
			Name        string   `json:"name"`
			FullAddress string   `json:"full_address"`
			PoiCategory []string `json:"poi_category"`
			Coordinates struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"coordinates"`
		} `json:"properties"`
	} `json:"features"`
}

// places converts the response to Places, annotating each with its
// great-circle distance from the proximity point when one was given.
func (s *searchResponse) places(proximity *geo.Location) []Place {
	out := make([]Place, 0, len(s.Features))
	for _, f := range s.Features {
		p := Place{
			ID:   f.Properties.MapboxID,
			Name: f.Properties.Name,
			Location: geo.Location{
				Latitude:  f.Properties.Coordinates.Latitude,
				Longitude: f.Properties.Coordinates.Longitude,
			},
			Address: f.Properties.FullAddress,
		}
		if len(f.Properties.PoiCategory) > 0 {
			p.Category = f.Properties.PoiCategory[0]
		}
		if proximity != nil {
			p.Distance = geo.Distance(*proximity, p.Location)
		}
		out = append(out, p)
	}
	return out
}

// POISearchOutput defines the output format for point-of-interest search
type POISearchOutput struct {
	Places []Place `json:"places"`
}

// POISearchTool returns a tool definition for searching points of interest
func POISearchTool() mcp.Tool {
	return mcp.NewTool("poi_search",
		mcp.WithDescription("Search for points of interest by name near a location"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search text, e.g. \"coffee shop\""),
		),
		mcp.WithNumber("latitude",
			mcp.Description("Latitude to bias results toward"),
		),
		mcp.WithNumber("longitude",
			mcp.Description("Longitude to bias results toward"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-10, default 5)"),
		),
	)
}

// HandlePOISearch implements the point-of-interest search functionality
func (r *Registry) HandlePOISearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "poi_search")

	query := mcp.ParseString(req, "query", "")
	if query == "" {
		return ErrorResponse("Query must not be empty"), nil
	}

	q := url.Values{}
	q.Set("q", query)
	proximity := parseProximity(req, q)
	setLimit(req, q)

	var apiResp searchResponse
	if err := r.client.GetJSON(ctx, mapbox.SearchForwardPath, q, &apiResp); err != nil {
		logger.Error("search request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Search", err)), nil
	}
	if len(apiResp.Features) == 0 {
		return ErrorResponse("No places found for the query"), nil
	}

	return r.deliver("poi_search", POISearchOutput{Places: apiResp.places(proximity)})
}

// CategorySearchOutput defines the output format for category search
type CategorySearchOutput struct {
	Category string  `json:"category"`
	Places   []Place `json:"places"`
}

// CategorySearchTool returns a tool definition for category listing
func CategorySearchTool() mcp.Tool {
	return mcp.NewTool("category_search",
		mcp.WithDescription("List points of interest of a given category near a location"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Canonical category name, e.g. \"restaurant\", \"coffee\", \"hotel\", \"charging_station\""),
		),
		mcp.WithNumber("latitude",
			mcp.Description("Latitude to bias results toward"),
		),
		mcp.WithNumber("longitude",
			mcp.Description("Longitude to bias results toward"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-10, default 5)"),
		),
	)
}

// HandleCategorySearch implements the category search functionality
func (r *Registry) HandleCategorySearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "category_search")

	category := mcp.ParseString(req, "category", "")
	if category == "" {
		return ErrorResponse("Category must not be empty"), nil
	}

	q := url.Values{}
	proximity := parseProximity(req, q)
	setLimit(req, q)

	var apiResp searchResponse
	if err := r.client.GetJSON(ctx, mapbox.CategorySearchPath(category), q, &apiResp); err != nil {
		logger.Error("category search request failed", "error", err)
		return ErrorWithGuidance(FromServiceError("Search", err)), nil
	}
	if len(apiResp.Features) == 0 {
		return ErrorResponse("No places found in this category near the location"), nil
	}

	output := CategorySearchOutput{
		Category: category,
		Places:   apiResp.places(proximity),
	}
	return r.deliver("category_search", output)
}

// parseProximity reads optional latitude/longitude arguments, adds the
// proximity parameter when both are present and valid, and returns the
// point. Presence is checked on the argument map so (0,0) is a usable
// proximity point, not a sentinel.
func parseProximity(req mcp.CallToolRequest, q url.Values) *geo.Location {
	if _, ok := req.Params.Arguments["latitude"]; !ok {
		return nil
	}
	if _, ok := req.Params.Arguments["longitude"]; !ok {
		return nil
	}
	loc := geo.Location{
		Latitude:  mcp.ParseFloat64(req, "latitude", 0),
		Longitude: mcp.ParseFloat64(req, "longitude", 0),
	}
	if !loc.Valid() {
		return nil
	}
	q.Set("proximity", geo.FormatLonLat(loc))
	return &loc
}

func setLimit(req mcp.CallToolRequest, q url.Values) {
	limit := int(mcp.ParseFloat64(req, "limit", 5))
	if limit < 1 || limit > 10 {
		limit = 5
	}
	q.Set("limit", strconv.Itoa(limit))
}
