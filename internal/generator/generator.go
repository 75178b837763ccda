// Package generator implements the generation pipeline (C9): the
// fixed-point loop that alternates template substitution (C6, via a
// substitute cache C7) with embedded-code interpretation (C5), owning
// the register-substitution memo and the get_sub custom command every
// generation exposes to the interpreter.
package generator

import (
	"context"
	"crypto/sha256"
	"strings"
	"sync"

	"fungen.dev/internal/cache"
	"fungen.dev/internal/fungerr"
	"fungen.dev/internal/interp"
	"fungen.dev/internal/store"
	"fungen.dev/internal/substitutor"
	"fungen.dev/internal/value"
)

// maxOuterIterations bounds generate's fixed-point loop (spec §4.8).
const maxOuterIterations = 255

var (
	caretSub    = substitutor.New(substitutor.Caret)
	registerSub = substitutor.New(substitutor.PlusRegister)
)

// Generator runs the fixed-point loop over a substitute cache, drawing
// random substitutes through it for both caret and register-delimited
// template references.
type Generator struct {
	cache *cache.Cache
}

// New builds a Generator over front, the substitute cache it draws from.
func New(front *cache.Cache) *Generator {
	return &Generator{cache: front}
}

// Generate expands input to a fixed point: each pass applies register
// substitution, then caret substitution, then embedded-code
// interpretation; the loop stops when a pass reproduces output already
// seen (cycle — best-effort, not an error) or after maxOuterIterations
// passes (spec §4.8 step 3).
func (g *Generator) Generate(ctx context.Context, input string, ip *interp.Interpreter) (string, error) {
	out, _, err := g.GenerateCounting(ctx, input, ip)
	return out, err
}

// GenerateCounting behaves like Generate but also reports how many
// fixed-point passes actually ran, for callers (gensession traces, the
// CLI/MCP front ends) that want to surface that count to an operator.
func (g *Generator) GenerateCounting(ctx context.Context, input string, ip *interp.Interpreter) (string, int, error) {
	ip.AddCommand("get_sub", interp.CommandSpec{
		Args: []interp.ArgRule{{Type: interp.ArgText}},
		Exec: g.getSubExecutor(),
	})

	output := input
	seen := make(map[[32]byte]bool)
	iterations := 0
	for i := 0; i < maxOuterIterations; i++ {
		h := sha256.Sum256([]byte(output))
		if seen[h] {
			break
		}
		seen[h] = true
		iterations++

		next, err := g.interpretInput(ctx, output, ip)
		if err != nil {
			return "", iterations, err
		}
		output = next
	}
	return output, iterations, nil
}

// interpretInput runs one pass: register substitution, then caret
// substitution, then embedded-code interpretation (spec §4.8).
func (g *Generator) interpretInput(ctx context.Context, text string, ip *interp.Interpreter) (string, error) {
	memo := newRegisterMemo()
	withRegisters, err := registerSub.Substitute(ctx, text, g.registerMapper(ip, memo))
	if err != nil {
		return "", err
	}

	withCarets, err := caretSub.Substitute(ctx, withRegisters, g.caretMapper())
	if err != nil {
		return "", err
	}

	out, err := ip.InterpretEmbeddedCode(ctx, withCarets)
	if err != nil {
		return "", fungerr.InterpreterWrap("embedded code", err)
	}
	return out, nil
}

// registerMemo memoizes one generation pass's `$prefix-register` draws:
// the same key within a pass always resolves to the same draw. Only a
// successful draw is memoized (spec §9's "memoize only on success") so a
// miss is retried on its next occurrence in the same pass.
type registerMemo struct {
	mu   sync.Mutex
	data map[string]string
}

func newRegisterMemo() *registerMemo {
	return &registerMemo{data: make(map[string]string)}
}

func (m *registerMemo) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *registerMemo) set(key, val string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
}

// registerMapper resolves a `$`-delimited identifier. The full match
// (e.g. "noun-1") is the memo key; the substring before the first '-' (or
// the whole identifier, if there is no '-') names the template to draw
// from. A resolved draw is itself run through Generate recursively
// before being memoized and spliced in, so nested templates and embedded
// code inside a drawn substitute body are fully expanded (spec §4.8
// step 1).
func (g *Generator) registerMapper(ip *interp.Interpreter, memo *registerMemo) substitutor.Mapper {
	return func(ctx context.Context, identifier string) (string, bool, error) {
		if cached, ok := memo.get(identifier); ok {
			return cached, true, nil
		}

		template := identifier
		if idx := strings.IndexByte(identifier, '-'); idx >= 0 {
			template = identifier[:idx]
		}

		sub, err := g.cache.GetRandom(ctx, template)
		if err != nil {
			// Unknown/empty template: leave the reference verbatim and
			// do not memoize, so a later occurrence retries (spec §4.8,
			// §9).
			return "", false, nil
		}

		expanded, err := g.Generate(ctx, sub.Name, ip)
		if err != nil {
			return "", false, err
		}
		memo.set(identifier, expanded)
		return expanded, true, nil
	}
}

// caretMapper resolves a `^`-delimited identifier to one fresh random
// draw; unknown templates are left verbatim (spec §4.8 step 2). Unlike
// the register form, caret draws are not memoized and not recursively
// expanded here — the outer fixed-point loop re-applies substitution
// until the drawn body's own templates are resolved.
func (g *Generator) caretMapper() substitutor.Mapper {
	return func(ctx context.Context, identifier string) (string, bool, error) {
		sub, err := g.cache.GetRandom(ctx, identifier)
		if err != nil {
			return "", false, nil
		}
		return sub.Name, true, nil
	}
}

// getSubExecutor implements the `get_sub` custom command (spec §4.8):
// its single text argument must start with a backtick; the backtick is
// stripped and a freshly drawn random substitute's body is returned.
func (g *Generator) getSubExecutor() interp.Executor {
	return func(ctx context.Context, cmd *value.Command, args []value.Value) (value.Value, error) {
		arg := args[0].Stringify()
		if !strings.HasPrefix(arg, "`") {
			return value.Value{}, fungerr.UserInput("get_sub argument must start with a backtick")
		}
		template := strings.TrimPrefix(arg, "`")
		sub, err := g.cache.GetRandom(ctx, template)
		if err != nil {
			return value.Value{}, err
		}
		return value.Text(sub.Name), nil
	}
}

// GetSubForTest exposes getSubExecutor's template-draw behavior to tests
// without requiring a full Generate call.
func (g *Generator) GetSubForTest(ctx context.Context, template string) (store.Substitute, error) {
	return g.cache.GetRandom(ctx, template)
}
