package server

import (
	"context"
	"fmt"

	"github.com/mapgrid/mapmcp/pkg/tempstore"
	"github.com/mark3labs/mcp-go/mcp"
)

// registerResources registers the temporary result resource template. Tools
// whose serialized output exceeds the configured threshold park the payload
// in the store and return its URI; this is the read side of that handoff.
func (s *Server) registerResources() {
	template := mcp.NewResourceTemplate(
		tempstore.URITemplate,
		"Temporary tool results",
		mcp.WithTemplateDescription("Full results of tool calls that were too large to return inline. Entries expire after the configured TTL."),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.srv.AddResourceTemplate(template, s.handleTempResource)
}

// handleTempResource resolves a mapmcp://temp/{name} URI against the store.
// Expired resources read the same as ones that never existed.
func (s *Server) handleTempResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI

	id, err := tempstore.IDFromURI(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid resource URI %q: %w", uri, err)
	}

	payload, meta, err := s.store.Read(id)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", uri, err)
	}

	s.logger.Debug("serving temporary resource",
		"uri", uri,
		"tool", meta.Tool,
		"size", meta.Size)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(payload),
		},
	}, nil
}
