package gensession

import (
	"fmt"
	"os"
	"time"
)

// Retention bounds how many session traces accumulate on disk.
type Retention struct {
	MaxSessions int           // 0 = unlimited
	MaxAge      time.Duration // 0 = unlimited
}

// DefaultRetention keeps the most recent 200 sessions for up to 7 days.
var DefaultRetention = Retention{MaxSessions: 200, MaxAge: 7 * 24 * time.Hour}

// Cleanup removes sessions outside retention's bounds and returns how
// many were deleted. Safe to call at startup; individual deletion
// failures are skipped rather than aborting the sweep.
func Cleanup(retention Retention) (int, error) {
	sessions, err := ListSessions(0)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	toDelete := make(map[string]bool)
	now := time.Now()
	if retention.MaxAge > 0 {
		for _, s := range sessions {
			if now.Sub(s.StartTime) > retention.MaxAge {
				toDelete[s.SessionID] = true
			}
		}
	}
	if retention.MaxSessions > 0 && len(sessions) > retention.MaxSessions {
		// sessions is sorted newest-first by ListSessions.
		for _, s := range sessions[retention.MaxSessions:] {
			toDelete[s.SessionID] = true
		}
	}

	deleted := 0
	for id := range toDelete {
		if err := os.RemoveAll(sessionDir(id)); err != nil {
			continue
		}
		deleted++
	}
	return deleted, nil
}
