package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fungen.dev/internal/dirs"
)

// ServerRegistryFile is the path (relative to the project root) where a
// running `fungen serve` process writes its address, PID, and version
// when it starts, so a later `fungen serve` invocation in the same
// directory can detect it and refuse to start a second server over it
// (see server.checkNoServerRunning).
const ServerRegistryFile = dirs.StateDir + "/server.json"

// ServerFileData is persisted to disk when the MCP HTTP server starts.
// Version lets an operator (or a later `serve` invocation reading this
// file) tell which build of the engine is already listening without
// having to probe it.
type ServerFileData struct {
	Addr    string `json:"addr"`
	PID     int    `json:"pid"`
	Version string `json:"version,omitempty"`
}

func serverFilePath(workingDir string) string {
	if workingDir == "" {
		return ServerRegistryFile
	}
	return filepath.Join(workingDir, ServerRegistryFile)
}

// WriteServerFile writes the server registry to disk in the current working directory.
func WriteServerFile(data ServerFileData) error {
	dir := filepath.Dir(ServerRegistryFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal server file: %w", err)
	}
	return os.WriteFile(ServerRegistryFile, b, 0644)
}

// ReadServerFile reads the server registry. workingDir="" uses the current working directory.
func ReadServerFile(workingDir string) (*ServerFileData, error) {
	b, err := os.ReadFile(serverFilePath(workingDir))
	if err != nil {
		return nil, err
	}
	var data ServerFileData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to parse server file: %w", err)
	}
	return &data, nil
}

// DeleteServerFile removes the server registry. workingDir="" uses the current working directory.
func DeleteServerFile(workingDir string) {
	_ = os.Remove(serverFilePath(workingDir))
}

// IsProcessAlive reports whether a process with the given PID is running.
func IsProcessAlive(pid int) bool {
	return isProcessAlive(pid)
}
