// Package llmadapter implements the external LLM-backend collaborator
// (A7) that generate_ai forwards its expanded prompt to: an Ollama
// client wired against generator.LLMBackend, grounded on the retrieval
// pack's flux-sales-ollama manifest (the one example in the pack that
// depends on github.com/ollama/ollama).
package llmadapter

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"fungen.dev/internal/fungerr"
	"fungen.dev/internal/generator"
)

// Adapter is a generator.LLMBackend backed by a running Ollama instance.
type Adapter struct {
	client *api.Client
}

// New builds an Adapter talking to the Ollama server at endpoint (e.g.
// "http://localhost:11434").
func New(endpoint string) (*Adapter, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fungerr.Ollama("invalid ollama endpoint", err)
	}
	return &Adapter{client: api.NewClient(base, nil)}, nil
}

var _ generator.LLMBackend = (*Adapter)(nil)

// Complete runs model over prompt with settings and returns the
// concatenated streamed response text (spec §4.8 generate_ai; §6
// optional Ollama settings).
func (a *Adapter) Complete(ctx context.Context, model string, settings generator.Settings, prompt string) (string, error) {
	maxPredict := settings.MaxPredict
	if maxPredict <= 0 || maxPredict > generator.MaxPredictCeiling {
		maxPredict = generator.MaxPredictCeiling
	}

	options := map[string]any{
		"temperature":    settings.Temperature,
		"repeat_penalty": settings.RepeatPenalty,
		"top_k":          settings.TopK,
		"top_p":          settings.TopP,
		"num_predict":    maxPredict,
	}

	req := &api.GenerateRequest{
		Model:   model,
		Prompt:  prompt,
		System:  settings.SystemPrompt,
		Template: settings.Template,
		Options: options,
	}

	var out bytes.Buffer
	err := a.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fungerr.Ollama("generate request failed", err)
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
