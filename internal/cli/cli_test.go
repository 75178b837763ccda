package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
)

func TestNewRootCmdHasExpectedSubcommands(t *testing.T) {
	root := newRootCmd("test")
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "generate", "generate-ai", "template", "substitute"} {
		if !names[want] {
			t.Errorf("expected root command to have subcommand %q", want)
		}
	}
}

func TestTemplateCommandHasExpectedSubcommands(t *testing.T) {
	cmd := newTemplateCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"create", "list", "rename", "delete"} {
		if !names[want] {
			t.Errorf("expected template command to have subcommand %q", want)
		}
	}
}

func TestSubstituteCommandHasExpectedSubcommands(t *testing.T) {
	cmd := newSubstituteCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"add", "list", "delete", "replace", "copy"} {
		if !names[want] {
			t.Errorf("expected substitute command to have subcommand %q", want)
		}
	}
}

func TestExitErrorImplementsError(t *testing.T) {
	err := &exitError{code: 3}
	if err.Error() != "exit status 3" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// what was written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestGenerateCommandLiteralPassthrough(t *testing.T) {
	globalConfig = ""
	root := newRootCmd("test")
	root.SetArgs([]string{"generate", "hello world"})

	out := captureStdout(t, func() {
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("execute: %v", err)
		}
	})
	if strings.TrimSpace(out) != "hello world" {
		t.Fatalf("expected passthrough output, got %q", out)
	}
}

func TestGenerateAICommandFailsWithoutEndpoint(t *testing.T) {
	globalConfig = ""
	root := newRootCmd("test")
	root.SetArgs([]string{"generate-ai", "hello"})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))

	err := root.ExecuteContext(context.Background())
	if err == nil {
		t.Fatalf("expected an error when no ollama endpoint is configured")
	}
}
