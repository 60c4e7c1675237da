// Package liveness proves a session's owning process is still running,
// independent of the event stream.
package liveness

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/petekp/sessiontrack/internal/domain"
)

// ErrHeld is returned when another watcher already owns the marker
var ErrHeld = errors.New("liveness marker held")

// legacyMarkerMaxAge expires markers whose owner identity cannot be
// verified (no start-time data), so PID reuse cannot pin a ghost entry
// forever.
const legacyMarkerMaxAge = 24 * time.Hour

const ownerFileName = "owner.json"

// Owner describes the process a marker vouches for
type Owner struct {
	CreatedAt time.Time              `json:"created_at"`
	Identity  domain.ProcessIdentity `json:"identity"`
	Path      string                 `json:"path"`
	SessionID string                 `json:"session_id"`
}

// Marker is an exclusively-held on-disk liveness token
type Marker struct {
	dir string
}

// MarkerDir returns the marker directory for a session working directory
func MarkerDir(liveDir, workDir string) string {
	sum := sha256.Sum256([]byte(workDir))
	return filepath.Join(liveDir, hex.EncodeToString(sum[:8]))
}

// Acquire atomically claims the marker for workDir. Directory creation is
// the atomic operation: exactly one concurrent caller wins, the rest get
// ErrHeld.
func Acquire(liveDir, workDir string, owner Owner) (*Marker, error) {
	if err := os.MkdirAll(liveDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create live directory: %w", err)
	}

	dir := MarkerDir(liveDir, workDir)
	if err := os.Mkdir(dir, 0755); err != nil {
		if os.IsExist(err) {
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("failed to create marker: %w", err)
	}

	data, err := json.MarshalIndent(owner, "", "  ")
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to marshal owner: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ownerFileName), data, 0644); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write owner: %w", err)
	}

	return &Marker{dir: dir}, nil
}

// ReadOwner loads the owner record from an existing marker
func ReadOwner(markerDir string) (Owner, error) {
	data, err := os.ReadFile(filepath.Join(markerDir, ownerFileName))
	if err != nil {
		return Owner{}, err
	}

	var owner Owner
	if err := json.Unmarshal(data, &owner); err != nil {
		return Owner{}, fmt.Errorf("failed to parse owner: %w", err)
	}
	return owner, nil
}

// Release removes the marker. Only the acquiring watcher calls this.
func (m *Marker) Release() error {
	return os.RemoveAll(m.dir)
}

// Dir returns the marker directory path
func (m *Marker) Dir() string {
	return m.dir
}
