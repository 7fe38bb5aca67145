package tools

import (
	"context"
	"log/slog"

	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mapgrid/mapmcp/pkg/tempstore"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registry holds all MCP tool registrations and the dependencies the tool
// handlers share: the Mapbox client (and with it the request pipeline) and
// the temporary resource store.
type Registry struct {
	logger    *slog.Logger
	client    *mapbox.Client
	store     *tempstore.Store
	threshold int
}

// NewRegistry creates a new MCP tool registry. thresholdBytes is the
// serialized result size above which payloads go to the resource store.
func NewRegistry(logger *slog.Logger, client *mapbox.Client, store *tempstore.Store, thresholdBytes int) *Registry {
	if thresholdBytes <= 0 {
		thresholdBytes = tempstore.DefaultThresholdBytes
	}
	return &Registry{
		logger:    logger,
		client:    client,
		store:     store,
		threshold: thresholdBytes,
	}
}

// ToolDefinition represents a Mapbox MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns all Mapbox MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// Routing Tools
		{
			Name:        "directions",
			Description: "Get turn-by-turn directions between two or more locations",
			Tool:        DirectionsTool(),
			Handler:     r.HandleDirections,
		},
		{
			Name:        "matrix",
			Description: "Compute travel times and distances between sets of locations",
			Tool:        MatrixTool(),
			Handler:     r.HandleMatrix,
		},
		{
			Name:        "optimize_route",
			Description: "Find the optimal visiting order for a set of waypoints",
			Tool:        OptimizeRouteTool(),
			Handler:     r.HandleOptimizeRoute,
		},

		// Isochrone Tools
		{
			Name:        "isochrone",
			Description: "Compute areas reachable within given travel times or distances",
			Tool:        IsochroneTool(),
			Handler:     r.HandleIsochrone,
		},

		// Geocoding Tools
		{
			Name:        "forward_geocode",
			Description: "Convert an address or place name to geographic coordinates",
			Tool:        ForwardGeocodeTool(),
			Handler:     r.HandleForwardGeocode,
		},
		{
			Name:        "reverse_geocode",
			Description: "Convert geographic coordinates to a human-readable address",
			Tool:        ReverseGeocodeTool(),
			Handler:     r.HandleReverseGeocode,
		},

		// Search Tools
		{
			Name:        "poi_search",
			Description: "Search for points of interest by name near a location",
			Tool:        POISearchTool(),
			Handler:     r.HandlePOISearch,
		},
		{
			Name:        "category_search",
			Description: "List points of interest of a given category near a location",
			Tool:        CategorySearchTool(),
			Handler:     r.HandleCategorySearch,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
