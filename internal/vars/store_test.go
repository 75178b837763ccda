package vars

import (
	"strings"
	"testing"

	"fungen.dev/internal/value"
)

func TestInsertAndGet(t *testing.T) {
	s := New()
	if err := s.Insert("x", value.Int(5)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok := s.Get("x")
	if !ok || got.IntVal() != 5 {
		t.Fatalf("got %v, %v", got, ok)
	}
}

func TestGetOrErrMissing(t *testing.T) {
	s := New()
	if _, err := s.GetOrErr("missing"); err == nil {
		t.Fatal("expected error for missing identifier")
	} else if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsertRejectsOverBudget(t *testing.T) {
	s := New()
	big := value.Text(strings.Repeat("a", MaxBytes+1))
	if err := s.Insert("big", big); err != ErrMemoryLimitExceeded {
		t.Fatalf("expected memory limit error, got %v", err)
	}
	if s.Size() != 0 {
		t.Fatalf("store state must be unchanged on rejected insert, size=%d", s.Size())
	}
}

func TestInsertOverwriteIsAdditiveNotExact(t *testing.T) {
	s := New()
	half := value.Text(strings.Repeat("a", MaxBytes/2))
	if err := s.Insert("x", half); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := s.Insert("x", half); err != nil {
		t.Fatalf("second insert should still fit under the additive model: %v", err)
	}
	// A third insert of the same size must now fail: overwrite never freed
	// the first insert's accounted bytes.
	if err := s.Insert("x", half); err != ErrMemoryLimitExceeded {
		t.Fatalf("expected overwrite accounting to remain additive, got %v", err)
	}
}

func TestCopyRegister(t *testing.T) {
	s := New()
	s.SetCopyRegister(value.Text("hi"))
	if got := s.CopyRegister(); got.TextVal() != "hi" {
		t.Fatalf("got %v", got)
	}
}

func TestReset(t *testing.T) {
	s := New()
	_ = s.Insert("x", value.Int(1))
	s.SetCopyRegister(value.Text("hi"))
	s.Reset()
	if s.Size() != 0 {
		t.Fatalf("expected size 0 after reset, got %d", s.Size())
	}
	if !s.CopyRegister().IsNone() {
		t.Fatal("expected empty copy register after reset")
	}
	if _, ok := s.Get("x"); ok {
		t.Fatal("expected variables cleared after reset")
	}
}
