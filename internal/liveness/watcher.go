package liveness

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/ports"
)

// Watcher owns a liveness marker until its monitored process dies. It runs
// as a detached process so it outlives the hook invocation that spawned it;
// nothing can instruct it to stop, it must detect owner death itself.
type Watcher struct {
	inspector ports.ProcessInspector
	interval  time.Duration
	liveDir   string
}

// NewWatcher creates a watcher polling at the given interval
func NewWatcher(liveDir string, inspector ports.ProcessInspector, interval time.Duration) *Watcher {
	return &Watcher{
		inspector: inspector,
		interval:  interval,
		liveDir:   liveDir,
	}
}

// Run acquires the marker for owner.Path and polls until the owning process
// exits, then releases the marker. Losing the acquisition race to a live
// watcher is a quiet, successful exit.
func (w *Watcher) Run(ctx context.Context, owner Owner) error {
	marker, err := w.acquire(owner)
	if err != nil {
		if errors.Is(err, ErrHeld) {
			logging.Logger.Debug("Yielding to existing watcher", "path", owner.Path)
			return nil
		}
		return err
	}
	defer marker.Release()

	logging.Logger.Info("Watching session process",
		"pid", owner.Identity.PID,
		"path", owner.Path,
		"session_id", owner.SessionID)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !w.OwnerLive(owner) {
				logging.Logger.Info("Owner process exited, releasing marker",
					"pid", owner.Identity.PID, "path", owner.Path)
				return nil
			}
		}
	}
}

// acquire claims the marker, reclaiming it first if the recorded owner is
// dead. If another process wins the reacquisition race this watcher yields.
func (w *Watcher) acquire(owner Owner) (*Marker, error) {
	marker, err := Acquire(w.liveDir, owner.Path, owner)
	if !errors.Is(err, ErrHeld) {
		return marker, err
	}

	existing, readErr := ReadOwner(MarkerDir(w.liveDir, owner.Path))
	if readErr == nil && w.OwnerLive(existing) {
		return nil, ErrHeld
	}

	// Stale marker: remove it and retry once. A concurrent watcher may win
	// the retry, which is fine.
	logging.Logger.Debug("Reclaiming stale liveness marker", "path", owner.Path)
	os.RemoveAll(MarkerDir(w.liveDir, owner.Path))
	return Acquire(w.liveDir, owner.Path, owner)
}

// OwnerLive reports whether the marker's recorded owner is still the same
// running process. Without start-time data it degrades to PID liveness with
// a bounded marker age.
func (w *Watcher) OwnerLive(owner Owner) bool {
	current, err := w.inspector.Identity(owner.Identity.PID)
	if err != nil {
		return false
	}

	if owner.Identity.Verified() && current.Verified() {
		return owner.Identity.SameAs(current)
	}

	// Legacy marker: PID exists but identity is unverifiable. Trust it only
	// within the staleness bound.
	if owner.CreatedAt.IsZero() {
		return false
	}
	return time.Since(owner.CreatedAt) < legacyMarkerMaxAge
}
