package rename

import (
	"context"
	"testing"

	"fungen.dev/internal/cache"
	"fungen.dev/internal/store/memstore"
)

// TestRenamePropagationAndInvalidation covers S8 end to end through the
// propagator, including that a stale cache entry for the old name does
// not leak the old template's draws after rename.
func TestRenamePropagationAndInvalidation(t *testing.T) {
	ms := memstore.New()
	ctx := context.Background()
	if _, err := ms.CreateSubstitutes(ctx, "references_fruit", []string{"^fruit ^fruit^extra"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := ms.CreateSubstitutes(ctx, "fruit", []string{"apple"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c := cache.New(ms)
	if _, err := c.GetRandom(ctx, "fruit"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	p := New(ms, c)
	if _, err := p.RenameByName(ctx, "fruit", "new_fruit"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, err := c.GetRandom(ctx, "new_fruit")
	if err != nil {
		t.Fatalf("get random after rename: %v", err)
	}
	if got.Name != "apple" {
		t.Fatalf("got %+v", got)
	}

	if _, err := c.GetRandom(ctx, "fruit"); err == nil {
		t.Fatal("expected the old template name to no longer resolve any substitutes")
	}
}
