package server

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"fungen.dev/internal/store"
)

func (s *Server) registerTemplateTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_template",
		Description: "Create a new empty template with the given name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "template name, lower-case, matches ^[a-z_][a-z0-9_]*$",
				},
			},
			Required: []string{"name"},
		},
	}, s.handleCreateTemplate)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_templates",
		Description: "List templates, optionally filtered by a substring match on name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"search": map[string]interface{}{
					"type":        "string",
					"description": "only return templates whose name contains this substring",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "maximum rows to return, 0 for unlimited",
				},
			},
		},
	}, s.handleListTemplates)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rename_template",
		Description: "Rename a template and rewrite every substitute body that referenced it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"old_name": map[string]interface{}{"type": "string"},
				"new_name": map[string]interface{}{"type": "string"},
			},
			Required: []string{"old_name", "new_name"},
		},
	}, s.handleRenameTemplate)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_template",
		Description: "Delete a template and all of its substitutes",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{"type": "string"},
			},
			Required: []string{"name"},
		},
	}, s.handleDeleteTemplate)
}

func (s *Server) handleCreateTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, ok := stringArg(req, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}
	t, err := s.store.CreateTemplate(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	search, _ := args["search"].(string)
	limit := intArg(args, "limit", 0)

	templates, err := s.store.ReadTemplates(ctx, search, store.OrderByNameIgnoreCase(store.Ascending), limitFrom(limit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(templates)
}

func (s *Server) handleRenameTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldName, ok := stringArg(req, "old_name")
	if !ok {
		return mcp.NewToolResultError("old_name is required"), nil
	}
	newName, ok := stringArg(req, "new_name")
	if !ok {
		return mcp.NewToolResultError("new_name is required"), nil
	}
	t, err := s.renamer.RenameByName(ctx, oldName, newName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

func (s *Server) handleDeleteTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, ok := stringArg(req, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}
	t, err := s.store.DeleteTemplateByName(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.Invalidate(name)
	return jsonResult(t)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// stringArg reads a required string argument from req's params.
func stringArg(req mcp.CallToolRequest, key string) (string, bool) {
	v, ok := req.GetArguments()[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// stringSliceArg reads a required []string argument, tolerating the
// []interface{} shape JSON unmarshaling produces.
func stringSliceArg(req mcp.CallToolRequest, key string) ([]string, bool) {
	raw, ok := req.GetArguments()[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func intArg(args map[string]interface{}, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func limitFrom(n int) store.Limit {
	if n <= 0 {
		return store.LimitNone()
	}
	return store.LimitCount(n)
}
