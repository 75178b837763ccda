package gensession_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"fungen.dev/internal/gensession"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
}

func TestSetupCreatesDirAndGitignore(t *testing.T) {
	chdirTemp(t)
	if err := gensession.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := os.Stat(gensession.Dir); err != nil {
		t.Fatalf("session dir not created: %v", err)
	}
	if _, err := os.Stat("._fungen_state/.gitignore"); err != nil {
		t.Fatalf(".gitignore not created: %v", err)
	}
}

func TestTracerStartAndFinish(t *testing.T) {
	chdirTemp(t)
	tr := gensession.Start("^noun")
	tr.Finish("fox", 3, nil)

	got, err := gensession.ReadMetadata(tr.SessionID())
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if got.Input != "^noun" || got.Output != "fox" || got.Iterations != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.Error != "" {
		t.Fatalf("expected no error recorded, got %q", got.Error)
	}
}

func TestTracerFinishRecordsError(t *testing.T) {
	chdirTemp(t)
	tr := gensession.Start("bad")
	tr.Finish("", 1, errors.New("boom"))

	got, err := gensession.ReadMetadata(tr.SessionID())
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if got.Error != "boom" {
		t.Fatalf("got error %q", got.Error)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	chdirTemp(t)
	first := gensession.Start("one")
	first.Finish("1", 1, nil)
	time.Sleep(5 * time.Millisecond)
	second := gensession.Start("two")
	second.Finish("2", 1, nil)

	sessions, err := gensession.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != second.SessionID() {
		t.Fatalf("expected newest session first")
	}
}

func TestCleanupRespectsMaxSessions(t *testing.T) {
	chdirTemp(t)
	for i := 0; i < 5; i++ {
		tr := gensession.Start("x")
		tr.Finish("y", 1, nil)
		time.Sleep(time.Millisecond)
	}

	deleted, err := gensession.Cleanup(gensession.Retention{MaxSessions: 2})
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deletions, got %d", deleted)
	}
	remaining, err := gensession.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(remaining))
	}
}
