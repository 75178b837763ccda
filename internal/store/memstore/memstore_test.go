package memstore

import (
	"context"
	"testing"

	"fungen.dev/internal/store"
)

func TestCreateAndReadTemplate(t *testing.T) {
	m := New()
	ctx := context.Background()
	tpl, err := m.CreateTemplate(ctx, "noun")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tpl.Name != "noun" {
		t.Fatalf("got %+v", tpl)
	}
	got, err := m.ReadTemplateByName(ctx, "noun")
	if err != nil || got == nil || got.ID != tpl.ID {
		t.Fatalf("read back mismatch: %+v, %v", got, err)
	}
}

func TestCreateTemplateConflictReturnsNil(t *testing.T) {
	m := New()
	ctx := context.Background()
	if _, err := m.CreateTemplate(ctx, "noun"); err != nil {
		t.Fatalf("create: %v", err)
	}
	again, err := m.CreateTemplate(ctx, "noun")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != nil {
		t.Fatalf("expected nil on conflict, got %+v", again)
	}
}

func TestInvalidTemplateNameRejected(t *testing.T) {
	m := New()
	if _, err := m.CreateTemplate(context.Background(), "1bad"); err == nil {
		t.Fatal("expected validation error for leading digit")
	}
	if _, err := m.CreateTemplate(context.Background(), "Bad"); err == nil {
		t.Fatal("expected validation error for uppercase")
	}
}

func TestCascadeDeleteTemplate(t *testing.T) {
	m := New()
	ctx := context.Background()
	tpl, _ := m.CreateTemplate(ctx, "noun")
	if _, err := m.CreateSubstitutes(ctx, "noun", []string{"fox", "bear"}); err != nil {
		t.Fatalf("create substitutes: %v", err)
	}
	if _, err := m.DeleteTemplateByID(ctx, tpl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	subs, err := m.ReadSubstitutesFromTemplate(ctx, "noun", "", store.OrderByDefault(), store.LimitNone())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if subs != nil {
		t.Fatalf("expected no substitutes after cascade delete, got %+v", subs)
	}
}

func TestRenamePropagatesIntoSubstituteBodies(t *testing.T) {
	m := New()
	ctx := context.Background()
	if _, err := m.CreateSubstitutes(ctx, "references_fruit", []string{"^fruit ^fruit^extra"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.CreateTemplate(ctx, "fruit"); err != nil {
		t.Fatalf("create fruit: %v", err)
	}
	if _, err := m.UpdateTemplateByName(ctx, "fruit", "new_fruit"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	subs, err := m.ReadSubstitutesFromTemplate(ctx, "references_fruit", "", store.OrderByDefault(), store.LimitNone())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "^new_fruit ^new_fruit^extra" {
		t.Fatalf("got %+v", subs)
	}
}

func TestCopySubstitutesBetweenTemplates(t *testing.T) {
	m := New()
	ctx := context.Background()
	if _, err := m.CreateSubstitutes(ctx, "src", []string{"a", "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	receipt, err := m.CopySubstitutesFromTemplateToTemplate(ctx, "src", "dst")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(receipt.Updated) != 2 {
		t.Fatalf("got %+v", receipt)
	}
	dstSubs, err := m.ReadSubstitutesFromTemplate(ctx, "dst", "", store.OrderByDefault(), store.LimitNone())
	if err != nil || len(dstSubs) != 2 {
		t.Fatalf("got %+v, %v", dstSubs, err)
	}
}

func TestReadRandomSubstitutesEmptyTemplate(t *testing.T) {
	m := New()
	subs, err := m.ReadRandomSubstitutes(context.Background(), "nope", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subs != nil {
		t.Fatalf("got %+v", subs)
	}
}
