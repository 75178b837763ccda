package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"fungen.dev/internal/store"
)

// registerResources registers MCP resources describing the store's
// current templates, for clients that want to browse without issuing a
// tool call.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(
			"fungen://templates",
			"Templates",
			mcp.WithResourceDescription("Every template currently defined in the store"),
			mcp.WithMIMEType("application/json"),
		),
		func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			templates, err := s.store.ReadTemplates(ctx, "", store.OrderByNameIgnoreCase(store.Ascending), store.LimitNone())
			if err != nil {
				return nil, fmt.Errorf("failed to read templates: %w", err)
			}
			data, err := json.MarshalIndent(templates, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal templates: %w", err)
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      "fungen://templates",
					MIMEType: "application/json",
					Text:     string(data),
				},
			}, nil
		},
	)
}
