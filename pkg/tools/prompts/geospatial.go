// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterGeospatialPrompts registers usage guidance prompts with the MCP server
func RegisterGeospatialPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("coordinates",
		mcp.WithPromptDescription("Instructions for passing coordinates to the geospatial tools"),
	), CoordinatesPromptHandler)

	s.AddPrompt(mcp.NewPrompt("temporary_resources",
		mcp.WithPromptDescription("How to retrieve oversized tool results via resource URIs"),
	), TemporaryResourcesPromptHandler)
}

// CoordinatesPromptHandler returns the coordinate formatting prompt
func CoordinatesPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `The routing tools (directions, matrix, optimize_route) take coordinates as
semicolon-separated "longitude,latitude" pairs. Note the order: longitude first.

✅ GOOD: "-122.4194,37.7749;-122.2711,37.8044"
❌ BAD: "37.7749,-122.4194" (latitude first)
❌ BAD: "San Francisco;Oakland" (place names — geocode them first)

GUIDELINES:
1. Use forward_geocode to turn addresses or place names into coordinates
2. Longitude must be within [-180,180], latitude within [-90,90]
3. Use at least 4 decimal places for street-level precision
4. The matrix tool accepts 2-25 points; optimize_route accepts 2-12`

	return mcp.NewGetPromptResult(
		"Coordinate Formatting Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// TemporaryResourcesPromptHandler returns the oversized-result prompt
func TemporaryResourcesPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `When a tool result is too large to return inline, the tool instead returns a
short JSON summary with a "resource_uri" field, for example:

{"message":"...","resource_uri":"mapmcp://temp/isochrone-3f2a...","size_bytes":120000,"expires_in_minutes":30}

To obtain the full result, perform a resource read on that URI. Temporary
resources expire 30 minutes after creation; after expiry a read behaves as if
the resource never existed, so re-run the tool if you still need the data.`

	return mcp.NewGetPromptResult(
		"Retrieving Oversized Results",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}
