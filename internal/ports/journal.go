package ports

import (
	"context"

	"github.com/petekp/sessiontrack/internal/domain"
)

// EventJournal is the optional append-only diagnostics log of decoded events
type EventJournal interface {
	Close() error
	// History returns the newest entries first, optionally filtered by
	// session id; limit <= 0 means no limit
	History(ctx context.Context, sessionID string, limit int) ([]domain.JournalEntry, error)
	Record(ctx context.Context, entry domain.JournalEntry) error
}

// LivenessKeeper makes sure a session's owning process is being watched
type LivenessKeeper interface {
	// EnsureWatcher spawns a detached watcher for the session's working
	// directory unless a live marker already exists
	EnsureWatcher(ev domain.HookEvent) error
}
