package cache

import (
	"context"
	"testing"

	"fungen.dev/internal/store/memstore"
)

func TestGetRandomPopulatesAndServesFromCache(t *testing.T) {
	ms := memstore.New()
	ctx := context.Background()
	if _, err := ms.CreateSubstitutes(ctx, "noun", []string{"fox", "bear"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	c := New(ms)

	got, err := c.GetRandom(ctx, "noun")
	if err != nil {
		t.Fatalf("get random: %v", err)
	}
	if got.Name != "fox" && got.Name != "bear" {
		t.Fatalf("got %+v", got)
	}

	// Delete the underlying rows directly from the store; a cached hit
	// should still serve the snapshot taken at the first GetRandom.
	if _, err := ms.DeleteSubstitutesByName(ctx, "noun", []string{"fox", "bear"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again, err := c.GetRandom(ctx, "noun")
	if err != nil {
		t.Fatalf("get random (cached): %v", err)
	}
	if again.Name != "fox" && again.Name != "bear" {
		t.Fatalf("got %+v", again)
	}
}

func TestGetRandomEmptyTemplateFails(t *testing.T) {
	ms := memstore.New()
	c := New(ms)
	if _, err := c.GetRandom(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for a template with no substitutes")
	}
}

func TestInvalidateForcesRefill(t *testing.T) {
	ms := memstore.New()
	ctx := context.Background()
	if _, err := ms.CreateSubstitutes(ctx, "noun", []string{"fox"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	c := New(ms)
	if _, err := c.GetRandom(ctx, "noun"); err != nil {
		t.Fatalf("get random: %v", err)
	}
	if _, err := ms.DeleteSubstitutesByName(ctx, "noun", []string{"fox"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c.Invalidate("noun")
	if _, err := c.GetRandom(ctx, "noun"); err == nil {
		t.Fatal("expected error after invalidation forces a refill against an now-empty template")
	}
}
