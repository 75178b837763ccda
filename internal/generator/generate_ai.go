package generator

import (
	"context"

	"fungen.dev/internal/interp"
)

// Settings mirrors the optional LLM-adapter knobs in the configuration
// surface (spec §6): model sampling parameters plus the prompt scaffold
// around the user's text.
type Settings struct {
	Temperature   float64
	RepeatPenalty float64
	TopK          int
	TopP          float64
	SystemPrompt  string
	Template      string
	MaxPredict    int
}

// MaxPredictCeiling bounds Settings.MaxPredict (spec §6).
const MaxPredictCeiling = 2000

// LLMBackend is the external LLM-backend contract generate_ai forwards
// its expanded prompt to. internal/llmadapter provides the Ollama-backed
// implementation; the core only depends on this interface.
type LLMBackend interface {
	Complete(ctx context.Context, model string, settings Settings, prompt string) (string, error)
}

// GenerateAI runs Generate on prompt, then forwards the expanded text to
// backend and returns its response verbatim. Pure orchestration over
// Generate plus one external call; it introduces no new invariants
// (spec §4.8).
func (g *Generator) GenerateAI(ctx context.Context, backend LLMBackend, model string, settings Settings, prompt string, ip *interp.Interpreter) (string, error) {
	expanded, err := g.Generate(ctx, prompt, ip)
	if err != nil {
		return "", err
	}
	return backend.Complete(ctx, model, settings, expanded)
}
