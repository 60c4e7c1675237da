package liveness

import (
	"fmt"
	"os"
	"strconv"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/ports"
)

// SpawnFunc starts a detached watcher process with the given arguments
type SpawnFunc func(args ...string) error

// Manager decides when a watcher needs to be spawned for a session. The
// watcher itself runs as a separate detached process (see Watcher.Run); the
// manager only checks markers and launches.
type Manager struct {
	inspector ports.ProcessInspector
	liveDir   string
	ownerPID  func() int
	spawn     SpawnFunc
}

// Compile-time interface verification
var _ ports.LivenessKeeper = (*Manager)(nil)

// NewManager creates a liveness manager. The owning process of a hook
// invocation is its parent: Claude Code spawns hooks directly.
func NewManager(liveDir string, inspector ports.ProcessInspector, spawn SpawnFunc) *Manager {
	return &Manager{
		inspector: inspector,
		liveDir:   liveDir,
		ownerPID:  os.Getppid,
		spawn:     spawn,
	}
}

// EnsureWatcher spawns a detached watcher for the event's working directory
// unless a marker with a live owner already exists.
func (m *Manager) EnsureWatcher(ev domain.HookEvent) error {
	workDir := ev.CWD
	if workDir == "" {
		workDir = ev.ProjectDir
	}
	if workDir == "" {
		return nil
	}

	if owner, err := ReadOwner(MarkerDir(m.liveDir, workDir)); err == nil {
		watcher := NewWatcher(m.liveDir, m.inspector, 0)
		if watcher.OwnerLive(owner) {
			// A live watcher already covers this session
			return nil
		}
		// Stale marker; the spawned watcher reclaims it
	}

	pid := m.ownerPID()
	identity, err := m.inspector.Identity(pid)
	if err != nil {
		return fmt.Errorf("owning process %d not inspectable: %w", pid, err)
	}

	args := []string{
		"watch",
		"--path", workDir,
		"--pid", strconv.Itoa(identity.PID),
		"--start-time", strconv.FormatInt(identity.StartTimeMillis, 10),
		"--session-id", ev.SessionID,
	}
	if err := m.spawn(args...); err != nil {
		return fmt.Errorf("failed to spawn watcher: %w", err)
	}

	logging.Logger.Debug("Spawned liveness watcher",
		"pid", identity.PID, "path", workDir, "session_id", ev.SessionID)
	return nil
}
