package tools

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mapgrid/mapmcp/pkg/pipeline"
	"github.com/mapgrid/mapmcp/pkg/tempstore"
	"github.com/mapgrid/mapmcp/pkg/testutil"
	"github.com/mark3labs/mcp-go/mcp"
)

// newTestRegistry wires a registry to a stub Mapbox server.
func newTestRegistry(t *testing.T, threshold int, handler http.HandlerFunc) (*Registry, *tempstore.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := mapbox.NewClientWithPipeline(pipeline.New(nil), srv.URL, "pk.test", testutil.DiscardLogger())
	store := tempstore.New(tempstore.DefaultTTL)
	return NewRegistry(testutil.DiscardLogger(), client, store, threshold), store
}

// callReq builds a tool invocation request.
func callReq(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments,omitempty"`
			Meta      *struct {
				ProgressToken mcp.ProgressToken `json:"progressToken,omitempty"`
			} `json:"_meta,omitempty"`
		}{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the textual content from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil tool result")
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("tool result has no text content")
	return ""
}
