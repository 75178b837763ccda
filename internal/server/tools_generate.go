package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"fungen.dev/internal/gensession"
)

type generateResponse struct {
	Output     string `json:"output"`
	Iterations int    `json:"iterations"`
	SessionID  string `json:"session_id"`
}

func (s *Server) registerGenerateTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "generate",
		Description: "Run the template-generation engine over the given text, expanding caret references, register forms, and embedded command code to a fixed point",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{"type": "string"},
			},
			Required: []string{"text"},
		},
	}, s.handleGenerate)

	if s.llm != nil {
		s.mcpServer.AddTool(mcp.Tool{
			Name:        "generate_ai",
			Description: "Expand the given prompt with the generation engine, then forward the result to the configured Ollama model",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"prompt": map[string]interface{}{"type": "string"},
					"model": map[string]interface{}{
						"type":        "string",
						"description": "overrides the server's configured model for this call",
					},
				},
				Required: []string{"prompt"},
			},
		}, s.handleGenerateAI)
	}
}

func (s *Server) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := stringArg(req, "text")
	if !ok {
		return mcp.NewToolResultError("text is required"), nil
	}

	trace := gensession.Start(text)
	output, iterations, err := s.gen.GenerateCounting(ctx, text, newInterpreter())
	trace.Finish(output, iterations, err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(generateResponse{Output: output, Iterations: iterations, SessionID: trace.SessionID()})
}

func (s *Server) handleGenerateAI(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, ok := stringArg(req, "prompt")
	if !ok {
		return mcp.NewToolResultError("prompt is required"), nil
	}
	args := req.GetArguments()
	model := s.ollamaModel
	if m, ok := args["model"].(string); ok && m != "" {
		model = m
	}
	if model == "" {
		return mcp.NewToolResultError("no model configured and none supplied"), nil
	}

	trace := gensession.Start(prompt)
	output, err := s.gen.GenerateAI(ctx, s.llm, model, s.ollama, prompt, newInterpreter())
	trace.Finish(output, 0, err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(generateResponse{Output: output, SessionID: trace.SessionID()})
}
