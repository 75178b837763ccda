package substitutor

import (
	"context"
	"testing"
)

func mapFromTable(table map[string]string) Mapper {
	return func(ctx context.Context, identifier string) (string, bool, error) {
		v, ok := table[identifier]
		return v, ok, nil
	}
}

// TestNestedTemplateExpansion mirrors S4: a caret-delimited sentence whose
// "^verb^ed" suffix requires the trailing delimiter to be consumed so the
// replacement fuses directly with the following literal text.
func TestNestedTemplateExpansion(t *testing.T) {
	s := New(Caret)
	table := map[string]string{
		"adj":      "quick",
		"noun":     "fox",
		"verb":     "jump",
		"sentence": "A ^adj brown ^noun ^verb^ed over the lazy dog.",
	}
	out, err := s.SubstituteRecursively(context.Background(), "^sentence", mapFromTable(table))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "A quick brown fox jumped over the lazy dog."
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

// TestUnknownTemplateLeftVerbatim covers invariant 1 (idempotence on
// unresolved/literal input): an identifier with no matching entry stays
// untouched, delimiters included, and surrounding literal text survives.
func TestUnknownTemplateLeftVerbatim(t *testing.T) {
	s := New(Caret)
	out, err := s.SubstituteRecursively(context.Background(), "hello ^unknown world", mapFromTable(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello ^unknown world" {
		t.Fatalf("got %q", out)
	}
}

// TestCycleTerminates covers invariant 6: a mutual two-template cycle must
// terminate within the iteration bound rather than loop forever.
func TestCycleTerminates(t *testing.T) {
	s := New(Caret)
	table := map[string]string{
		"a": "^b",
		"b": "^a",
	}
	out, err := s.SubstituteRecursively(context.Background(), "^a", mapFromTable(table))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "^a" && out != "^b" {
		t.Fatalf("expected the cycle to stabilize on one of the two forms, got %q", out)
	}
}

// TestRenamePropagation covers S8: renaming a template rewrites every
// caret-delimited reference to it, preserving whatever
// trailing portion the original match had, and changes nothing else.
func TestRenamePropagation(t *testing.T) {
	s := New(Caret)
	body := "^fruit ^fruit^extra"
	out := s.Rename(body, "fruit", "new_fruit")
	want := "^new_fruit ^new_fruit^extra"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenameIgnoresOtherIdentifiers(t *testing.T) {
	s := New(Caret)
	out := s.Rename("^apple and ^banana", "apple", "pear")
	if out != "^pear and ^banana" {
		t.Fatalf("got %q", out)
	}
}

func TestSubstituteSingleQuoteDelimiter(t *testing.T) {
	s := New(SingleQuote)
	out, err := s.Substitute(context.Background(), "it's a 'color' day", mapFromTable(map[string]string{"color": "blue"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "it's a blue day" {
		t.Fatalf("got %q", out)
	}
}
