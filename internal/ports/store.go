package ports

import (
	"context"

	"github.com/petekp/sessiontrack/internal/domain"
)

// ApplyResult reports what the store actually did with an event
type ApplyResult struct {
	// Deleted is true when the event removed the record (SessionEnd)
	Deleted bool
	// Record is the post-merge record; zero-valued when Deleted or Skipped
	Record domain.SessionRecord
	// Skipped is true when the event was dropped (no cwd and no record)
	Skipped bool
	// StateChanged is true when the logical state changed value
	StateChanged bool
}

// StateStore is the durable session record collection. Implementations must
// serialize mutations across processes and replace the backing file
// atomically so readers never observe a torn write.
type StateStore interface {
	// ApplyEvent merges one event's transition outcome into the store
	ApplyEvent(ctx context.Context, ev domain.HookEvent, out domain.Outcome) (ApplyResult, error)
	// Enrich attaches summarizer output to an existing record, if present
	Enrich(ctx context.Context, sessionID string, enr domain.Enrichment) error
	// ReadAll returns every live session record; an absent or mid-rotation
	// store reads as empty
	ReadAll(ctx context.Context) (domain.SessionCollection, error)
}
