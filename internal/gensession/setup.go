// Package gensession traces individual generate calls to disk (A3): one
// directory per call holding the input, the final output, the iteration
// count the fixed-point loop ran, and timing, so an operator can inspect
// what a generation actually did after the fact. This mirrors the
// teacher's per-task session log, repurposed from capturing shell-task
// stdout to capturing generation traces.
package gensession

import (
	"fmt"
	"os"
	"path/filepath"

	"fungen.dev/internal/dirs"
)

// Dir is the directory all session traces live under.
const Dir = dirs.StateDir + "/sessions"

// Setup creates the session directory structure and a .gitignore so
// traces aren't accidentally committed.
func Setup() error {
	if err := os.MkdirAll(Dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	gitignorePath := filepath.Join(dirs.StateDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitignorePath, []byte("*\n!.gitignore\n"), 0644); err != nil {
			return fmt.Errorf("failed to create .gitignore: %w", err)
		}
	}
	return nil
}
