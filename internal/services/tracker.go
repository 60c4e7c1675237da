// Package services wires the decode → transition → persist → publish
// pipeline behind the hook-facing commands.
package services

import (
	"context"
	"time"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/ports"
)

// SpawnFunc starts a detached subprocess of this binary
type SpawnFunc func(args ...string) error

// Tracker handles one lifecycle event end to end. Every dependency except
// the store is optional; a nil journal, liveness keeper, publisher, or
// spawner simply disables that side effect.
type Tracker struct {
	journal   ports.EventJournal
	liveness  ports.LivenessKeeper
	publisher ports.ViewPublisher
	spawn     SpawnFunc
	store     ports.StateStore
}

// NewTracker creates a tracker over the given dependencies
func NewTracker(
	store ports.StateStore,
	liveness ports.LivenessKeeper,
	journal ports.EventJournal,
	publisher ports.ViewPublisher,
	spawn SpawnFunc,
) *Tracker {
	return &Tracker{
		journal:   journal,
		liveness:  liveness,
		publisher: publisher,
		spawn:     spawn,
		store:     store,
	}
}

// HandleEvent runs one decoded event through the transition table and all
// side channels. Side-channel failures are logged and swallowed; only a
// store failure is returned, and the hook command swallows that too.
func (t *Tracker) HandleEvent(ctx context.Context, ev domain.HookEvent) error {
	out := domain.Transition(ev)

	res, err := t.store.ApplyEvent(ctx, ev, out)
	if err != nil {
		return err
	}
	if res.Skipped {
		logging.Logger.Debug("Event skipped",
			"session_id", ev.SessionID, "kind", ev.Kind)
		return nil
	}

	t.recordJournal(ctx, ev, out)

	if !res.Deleted {
		t.kickLiveness(ev)
	}

	if shouldEnrich(ev, out) {
		t.spawnEnrichment(ev)
	}

	if (res.StateChanged || res.Deleted) && t.publisher != nil {
		t.publisher.PublishDebounced(ctx)
	}

	return nil
}

// recordJournal appends the event to the diagnostics journal when enabled
func (t *Tracker) recordJournal(ctx context.Context, ev domain.HookEvent, out domain.Outcome) {
	if t.journal == nil {
		return
	}
	entry := domain.JournalEntry{
		Action:           out.Action,
		Kind:             ev.Kind,
		NotificationType: ev.NotificationType,
		ObservedAt:       time.Now().UTC(),
		SessionID:        ev.SessionID,
		ToolName:         ev.ToolName,
	}
	if err := t.journal.Record(ctx, entry); err != nil {
		logging.Logger.Warn("Failed to journal event", "error", err)
	}
}

// kickLiveness makes sure the session's owning process has a watcher
func (t *Tracker) kickLiveness(ev domain.HookEvent) {
	if t.liveness == nil {
		return
	}
	if err := t.liveness.EnsureWatcher(ev); err != nil {
		logging.Logger.Warn("Failed to ensure liveness watcher", "error", err)
	}
}

// shouldEnrich limits enrichment to the end of a completed turn
func shouldEnrich(ev domain.HookEvent, out domain.Outcome) bool {
	return ev.Kind == domain.EventStop &&
		out.Action == domain.ActionUpsert &&
		ev.TranscriptPath != ""
}

// spawnEnrichment runs the summarizer in a detached process so the hook
// invocation returns immediately; the result lands in the store whenever
// it is ready.
func (t *Tracker) spawnEnrichment(ev domain.HookEvent) {
	if t.spawn == nil {
		return
	}
	err := t.spawn("enrich",
		"--session-id", ev.SessionID,
		"--transcript", ev.TranscriptPath,
	)
	if err != nil {
		logging.Logger.Warn("Failed to spawn enrichment", "error", err)
	}
}
