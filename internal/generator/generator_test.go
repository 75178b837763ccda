package generator_test

import (
	"context"
	"strings"
	"testing"

	"fungen.dev/internal/cache"
	"fungen.dev/internal/generator"
	"fungen.dev/internal/interp"
	"fungen.dev/internal/store/memstore"
)

func seed(t *testing.T, ms *memstore.MemStore, template string, bodies ...string) {
	t.Helper()
	if _, err := ms.CreateSubstitutes(context.Background(), template, bodies); err != nil {
		t.Fatalf("seed %s: %v", template, err)
	}
}

// S4: template expansion via caret substitution.
func TestGenerate_TemplateExpansion(t *testing.T) {
	ms := memstore.New()
	seed(t, ms, "adj", "quick")
	seed(t, ms, "noun", "fox")
	seed(t, ms, "verb", "jump")
	seed(t, ms, "sentence", "A ^adj brown ^noun ^verb^ed over the lazy dog.")

	g := generator.New(cache.New(ms))
	out, err := g.Generate(context.Background(), "^sentence", interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "A quick brown fox jumped over the lazy dog."
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

// S5: register memoization within one pass.
func TestGenerate_RegisterMemo(t *testing.T) {
	ms := memstore.New()
	seed(t, ms, "noun", "fox", "bear", "lion", "tiger")

	g := generator.New(cache.New(ms))
	out, err := g.Generate(context.Background(), "$noun-1 $noun-1 $noun-2", interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) != 3 {
		t.Fatalf("expected 3 tokens, got %q", out)
	}
	if fields[0] != fields[1] {
		t.Fatalf("same register should draw the same value: got %q and %q", fields[0], fields[1])
	}
}

// S6: lazy template expansion via backtick get_sub inside embedded code.
func TestGenerate_BacktickGetSub(t *testing.T) {
	ms := memstore.New()
	seed(t, ms, "adj", "quick")
	seed(t, ms, "noun", "fox")
	seed(t, ms, "quick_brown_fox", "{print(\"^adj ^noun\")}")

	g := generator.New(cache.New(ms))
	out, err := g.Generate(context.Background(), "{print(\"`quick_brown_fox`\")}", interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "quick fox" {
		t.Fatalf("got %q, want %q", out, "quick fox")
	}
}

// S7: cyclic templates terminate with a finite result.
func TestGenerate_CycleSafety(t *testing.T) {
	ms := memstore.New()
	seed(t, ms, "a", "^b")
	seed(t, ms, "b", "^a")

	g := generator.New(cache.New(ms))
	done := make(chan struct{})
	var out string
	var err error
	go func() {
		out, err = g.Generate(context.Background(), "^a", interp.New())
		close(done)
	}()
	<-done
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out == "" {
		t.Fatalf("expected some finite output")
	}
}

// Invariant 1: idempotence on fully-literal input.
func TestGenerate_LiteralIdempotence(t *testing.T) {
	ms := memstore.New()
	g := generator.New(cache.New(ms))
	out, err := g.Generate(context.Background(), "just plain text, nothing special", interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "just plain text, nothing special" {
		t.Fatalf("got %q", out)
	}
}

// Unknown caret template is left verbatim.
func TestGenerate_UnknownCaretTemplate(t *testing.T) {
	ms := memstore.New()
	g := generator.New(cache.New(ms))
	out, err := g.Generate(context.Background(), "see ^unknown here", interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "see ^unknown here" {
		t.Fatalf("got %q", out)
	}
}

func TestGenerate_ArithmeticAndControlFlow(t *testing.T) {
	ms := memstore.New()
	g := generator.New(cache.New(ms))

	out, err := g.Generate(context.Background(), `{print(add(1, 2, 3.0))}`, interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "6" && out != "6.0" {
		t.Fatalf("got %q", out)
	}

	out, err = g.Generate(context.Background(), `{repeat(3, print("hi"))}`, interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "hihihi" {
		t.Fatalf("got %q", out)
	}

	out, err = g.Generate(context.Background(), `{store(5, x) print(add(x, 10))}`, interp.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "15" {
		t.Fatalf("got %q", out)
	}
}
