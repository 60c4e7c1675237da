// Package aggregator rolls up per-session state into per-project views and
// ships them to the relay.
package aggregator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/ports"
)

// Aggregator computes and publishes the debounced project view
type Aggregator struct {
	pendingPath string
	pinned      []string
	publisher   ports.RelayPublisher
	store       ports.StateStore
	wait        time.Duration
}

// New creates an aggregator for the given pinned project paths
func New(store ports.StateStore, publisher ports.RelayPublisher, pinned []string, pendingPath string, wait time.Duration) *Aggregator {
	return &Aggregator{
		pendingPath: pendingPath,
		pinned:      pinned,
		publisher:   publisher,
		store:       store,
		wait:        wait,
	}
}

// Rollup selects, for each pinned project, the session under that path
// subtree with the most recent state change among those with a non-empty
// state.
func (a *Aggregator) Rollup(ctx context.Context) (map[string]domain.ProjectSummary, error) {
	sessions, err := a.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	view := make(map[string]domain.ProjectSummary)

	g, ctx := errgroup.WithContext(ctx)
	for _, project := range a.pinned {
		project := project
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary, ok := summarize(project, sessions)
			if !ok {
				return nil
			}
			mu.Lock()
			view[project] = summary
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return view, nil
}

// summarize picks the representative session for one project path
func summarize(project string, sessions domain.SessionCollection) (domain.ProjectSummary, bool) {
	var best domain.SessionRecord
	found := false

	for _, rec := range sessions {
		if rec.State == "" || !rec.UnderProject(project) {
			continue
		}
		if !found || rec.StateChangedAt.After(best.StateChangedAt) {
			best = rec
			found = true
		}
	}

	if !found {
		return domain.ProjectSummary{}, false
	}
	return domain.ProjectSummary{
		LastUpdated: best.UpdatedAt,
		NextStep:    best.NextStep,
		State:       best.State,
		WorkingOn:   best.WorkingOn,
	}, true
}

// PublishDebounced waits out the current event burst and publishes once for
// it. Failures are logged and dropped; the next event triggers a fresh
// attempt.
func (a *Aggregator) PublishDebounced(ctx context.Context) {
	proceed, err := Debounce(ctx, a.pendingPath, a.wait)
	if err != nil {
		logging.Logger.Warn("Debounce failed", "error", err)
		return
	}
	if !proceed {
		logging.Logger.Debug("Yielding to newer publish trigger")
		return
	}
	defer ClearPending(a.pendingPath)

	a.PublishNow(ctx)
}

// PublishNow aggregates and delivers immediately, skipping the debounce
func (a *Aggregator) PublishNow(ctx context.Context) {
	view, err := a.Rollup(ctx)
	if err != nil {
		logging.Logger.Warn("Rollup failed", "error", err)
		return
	}
	if len(view) == 0 {
		logging.Logger.Debug("Nothing to publish")
		return
	}

	if err := a.publisher.Publish(ctx, view); err != nil {
		// Best-effort: log and drop, never retry inline
		logging.Logger.Warn("Relay publish failed", "error", err)
		return
	}
}
