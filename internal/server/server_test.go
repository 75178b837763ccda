package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"fungen.dev/internal/cache"
	"fungen.dev/internal/generator"
	"fungen.dev/internal/rename"
	"fungen.dev/internal/store"
	"fungen.dev/internal/store/memstore"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ms := memstore.New()
	front := cache.New(ms)
	gen := generator.New(front)
	renamer := rename.New(ms, front)
	return NewServer(ms, front, gen, renamer, nil, "", generator.Settings{}, "test")
}

func callTool(ctx context.Context, s *Server, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	switch name {
	case "create_template":
		return s.handleCreateTemplate(ctx, req)
	case "list_templates":
		return s.handleListTemplates(ctx, req)
	case "rename_template":
		return s.handleRenameTemplate(ctx, req)
	case "delete_template":
		return s.handleDeleteTemplate(ctx, req)
	case "add_substitute":
		return s.handleAddSubstitute(ctx, req)
	case "add_substitutes":
		return s.handleAddSubstitutes(ctx, req)
	case "list_substitutes":
		return s.handleListSubstitutes(ctx, req)
	case "delete_substitute":
		return s.handleDeleteSubstitute(ctx, req)
	case "replace_substitute":
		return s.handleReplaceSubstitute(ctx, req)
	case "copy_substitutes":
		return s.handleCopySubstitutes(ctx, req)
	case "generate":
		return s.handleGenerate(ctx, req)
	case "generate_ai":
		return s.handleGenerateAI(ctx, req)
	}
	panic("unknown tool in test harness: " + name)
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatalf("result has no content")
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("result content is not text: %T", res.Content[0])
	}
	return tc.Text
}

func TestCreateAndListTemplates(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	res, err := callTool(ctx, s, "create_template", map[string]interface{}{"name": "noun"})
	if err != nil || res.IsError {
		t.Fatalf("create_template failed: err=%v res=%+v", err, res)
	}

	res, err = callTool(ctx, s, "list_templates", map[string]interface{}{})
	if err != nil || res.IsError {
		t.Fatalf("list_templates failed: err=%v res=%+v", err, res)
	}
	var templates []store.Template
	if err := json.Unmarshal([]byte(resultText(t, res)), &templates); err != nil {
		t.Fatalf("unmarshal templates: %v", err)
	}
	if len(templates) != 1 || templates[0].Name != "noun" {
		t.Fatalf("unexpected templates: %+v", templates)
	}
}

func TestAddSubstituteAndGenerate(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	if res, err := callTool(ctx, s, "add_substitute", map[string]interface{}{
		"template": "noun", "body": "cat",
	}); err != nil || res.IsError {
		t.Fatalf("add_substitute failed: err=%v res=%+v", err, res)
	}

	res, err := callTool(ctx, s, "generate", map[string]interface{}{"text": "^noun^"})
	if err != nil || res.IsError {
		t.Fatalf("generate failed: err=%v res=%+v", err, res)
	}
	var out generateResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("unmarshal generate response: %v", err)
	}
	if out.Output != "cat" {
		t.Fatalf("expected \"cat\", got %q", out.Output)
	}
	if out.SessionID == "" {
		t.Fatalf("expected a non-empty session id")
	}
}

func TestRenameTemplatePropagatesToBodies(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	mustTool(t, ctx, s, "create_template", map[string]interface{}{"name": "noun"})
	mustTool(t, ctx, s, "add_substitute", map[string]interface{}{"template": "sentence", "body": "the ^noun^ sat"})
	mustTool(t, ctx, s, "add_substitute", map[string]interface{}{"template": "noun", "body": "cat"})

	mustTool(t, ctx, s, "rename_template", map[string]interface{}{"old_name": "noun", "new_name": "animal"})

	res, err := callTool(ctx, s, "generate", map[string]interface{}{"text": "^sentence^"})
	if err != nil || res.IsError {
		t.Fatalf("generate failed: err=%v res=%+v", err, res)
	}
	var out generateResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Output != "the cat sat" {
		t.Fatalf("expected rewritten sentence, got %q", out.Output)
	}
}

func TestNewServerSkipsGenerateAIWithoutBackend(t *testing.T) {
	s := newTestServer(t)
	if s.llm != nil {
		t.Fatalf("expected a nil llm backend in this fixture")
	}
}

func TestDeleteSubstituteRequiresFields(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	res, err := callTool(ctx, s, "delete_substitute", map[string]interface{}{"template": "noun"})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected an error result for missing name argument")
	}
	if !strings.Contains(resultText(t, res), "name is required") {
		t.Fatalf("unexpected error text: %q", resultText(t, res))
	}
}

func mustTool(t *testing.T, ctx context.Context, s *Server, name string, args map[string]interface{}) {
	t.Helper()
	res, err := callTool(ctx, s, name, args)
	if err != nil || res.IsError {
		t.Fatalf("%s failed: err=%v res=%+v", name, err, res)
	}
}
