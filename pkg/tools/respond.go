package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mapgrid/mapmcp/pkg/tempstore"
	"github.com/mark3labs/mcp-go/mcp"
)

// resourceSummary is what the agent receives in place of an oversized
// payload: a pointer it can follow via a resource read.
type resourceSummary struct {
	Message          string `json:"message"`
	ResourceURI      string `json:"resource_uri"`
	SizeBytes        int    `json:"size_bytes"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

// deliver serializes payload and returns it inline, unless it exceeds the
// configured size threshold; then the payload is parked in the temporary
// resource store and the agent gets a summary plus the resource URI instead.
func (r *Registry) deliver(tool string, payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to marshal result", "tool", tool, "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	if len(data) <= r.threshold {
		return mcp.NewToolResultText(string(data)), nil
	}

	id := tempstore.NewID()
	uri := tempstore.URI(tool, id)
	r.store.Create(id, uri, data, tempstore.Metadata{Tool: tool, Size: len(data)})
	r.logger.Debug("stored oversized result",
		"tool", tool, "size", len(data), "uri", uri)

	summary := resourceSummary{
		Message: fmt.Sprintf(
			"The %s result is %d bytes, too large to return inline. Read the resource at the URI below to retrieve it.",
			tool, len(data)),
		ResourceURI:      uri,
		SizeBytes:        len(data),
		ExpiresInMinutes: int(r.store.TTL().Minutes()),
	}
	out, err := json.Marshal(summary)
	if err != nil {
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
