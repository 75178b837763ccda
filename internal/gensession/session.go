package gensession

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Metadata records one generate call's input, final output, iteration
// count, timing, and any failure, for later inspection.
type Metadata struct {
	SessionID  string         `json:"session_id"`
	Input      string         `json:"input"`
	Output     string         `json:"output,omitempty"`
	Iterations int            `json:"iterations"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    *time.Time     `json:"end_time,omitempty"`
	Duration   *time.Duration `json:"duration,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string { return uuid.New().String() }

func sessionDir(id string) string           { return filepath.Join(Dir, id) }
func metadataPath(id string) string         { return filepath.Join(sessionDir(id), "metadata.json") }

// CreateSessionDirectory makes the on-disk directory for session id.
func CreateSessionDirectory(id string) error {
	if err := os.MkdirAll(sessionDir(id), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return nil
}

// WriteMetadata persists m as session id's metadata file.
func WriteMetadata(id string, m *Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write session metadata: %w", err)
	}
	return nil
}

// ReadMetadata loads session id's metadata file.
func ReadMetadata(id string) (*Metadata, error) {
	data, err := os.ReadFile(metadataPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read session metadata: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session metadata: %w", err)
	}
	return &m, nil
}

// ListSessions returns up to limit session summaries, newest first.
// limit <= 0 means unlimited.
func ListSessions(limit int) ([]Metadata, error) {
	entries, err := os.ReadDir(Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var sessions []Metadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := ReadMetadata(e.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, *m)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}
