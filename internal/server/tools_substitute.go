package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"fungen.dev/internal/store"
)

func (s *Server) registerSubstituteTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "add_substitute",
		Description: "Add one substitute body to a template, creating the template if it doesn't exist",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template": map[string]interface{}{"type": "string"},
				"body":     map[string]interface{}{"type": "string"},
			},
			Required: []string{"template", "body"},
		},
	}, s.handleAddSubstitute)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "add_substitutes",
		Description: "Add multiple substitute bodies to a template in one call",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template": map[string]interface{}{"type": "string"},
				"bodies": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
			Required: []string{"template", "bodies"},
		},
	}, s.handleAddSubstitutes)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_substitutes",
		Description: "List a template's substitutes, optionally filtered by a substring match on body",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template": map[string]interface{}{"type": "string"},
				"search":   map[string]interface{}{"type": "string"},
				"limit":    map[string]interface{}{"type": "integer"},
			},
			Required: []string{"template"},
		},
	}, s.handleListSubstitutes)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_substitute",
		Description: "Delete one substitute from a template by its body text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template": map[string]interface{}{"type": "string"},
				"name":     map[string]interface{}{"type": "string", "description": "the substitute's body text"},
			},
			Required: []string{"template", "name"},
		},
	}, s.handleDeleteSubstitute)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "replace_substitute",
		Description: "Replace a substitute's body, keeping its identity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template": map[string]interface{}{"type": "string"},
				"name":     map[string]interface{}{"type": "string"},
				"new_body": map[string]interface{}{"type": "string"},
			},
			Required: []string{"template", "name", "new_body"},
		},
	}, s.handleReplaceSubstitute)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "copy_substitutes",
		Description: "Copy every substitute from one template into another",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source":      map[string]interface{}{"type": "string"},
				"destination": map[string]interface{}{"type": "string"},
			},
			Required: []string{"source", "destination"},
		},
	}, s.handleCopySubstitutes)
}

func (s *Server) handleAddSubstitute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, ok := stringArg(req, "template")
	if !ok {
		return mcp.NewToolResultError("template is required"), nil
	}
	body, ok := stringArg(req, "body")
	if !ok {
		return mcp.NewToolResultError("body is required"), nil
	}
	receipt, err := s.store.CreateSubstitute(ctx, template, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.Invalidate(template)
	return jsonResult(receipt)
}

func (s *Server) handleAddSubstitutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, ok := stringArg(req, "template")
	if !ok {
		return mcp.NewToolResultError("template is required"), nil
	}
	bodies, ok := stringSliceArg(req, "bodies")
	if !ok {
		return mcp.NewToolResultError("bodies must be a non-empty array of strings"), nil
	}
	receipt, err := s.store.CreateSubstitutes(ctx, template, bodies)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.Invalidate(template)
	return jsonResult(receipt)
}

func (s *Server) handleListSubstitutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, ok := stringArg(req, "template")
	if !ok {
		return mcp.NewToolResultError("template is required"), nil
	}
	args := req.GetArguments()
	search, _ := args["search"].(string)
	limit := intArg(args, "limit", 0)

	subs, err := s.store.ReadSubstitutesFromTemplate(ctx, template, search, store.OrderByNameIgnoreCase(store.Ascending), limitFrom(limit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(subs)
}

func (s *Server) handleDeleteSubstitute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, ok := stringArg(req, "template")
	if !ok {
		return mcp.NewToolResultError("template is required"), nil
	}
	name, ok := stringArg(req, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}
	sub, err := s.store.DeleteSubstituteByName(ctx, template, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.Invalidate(template)
	return jsonResult(sub)
}

func (s *Server) handleReplaceSubstitute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, ok := stringArg(req, "template")
	if !ok {
		return mcp.NewToolResultError("template is required"), nil
	}
	name, ok := stringArg(req, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}
	newBody, ok := stringArg(req, "new_body")
	if !ok {
		return mcp.NewToolResultError("new_body is required"), nil
	}
	sub, err := s.store.UpdateSubstituteByName(ctx, template, name, newBody)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.Invalidate(template)
	return jsonResult(sub)
}

func (s *Server) handleCopySubstitutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, ok := stringArg(req, "source")
	if !ok {
		return mcp.NewToolResultError("source is required"), nil
	}
	dst, ok := stringArg(req, "destination")
	if !ok {
		return mcp.NewToolResultError("destination is required"), nil
	}
	receipt, err := s.store.CopySubstitutesFromTemplateToTemplate(ctx, src, dst)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.Invalidate(dst)
	return jsonResult(receipt)
}
