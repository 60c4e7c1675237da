// Package storage persists the session record collection and the optional
// diagnostics event journal.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/ports"
)

// SchemaVersion tags the on-disk document. A stored payload with any other
// version is discarded and reinitialized empty; there is no migration path.
const SchemaVersion = 1

// defaultLockWait bounds how long a writer blocks on a contended store
const defaultLockWait = 5 * time.Second

// document is the on-disk shape of the store
type document struct {
	Sessions domain.SessionCollection `json:"sessions"`
	Version  int                      `json:"version"`
}

// FileStore is a StateStore backed by a single JSON file. Mutations take an
// advisory lock on a sidecar file (the store file itself is swapped by
// rename, so it cannot carry the lock), then write-to-temp-and-rename so a
// concurrent reader never sees a torn document.
type FileStore struct {
	lockWait time.Duration
	now      func() time.Time
	path     string
}

// Compile-time interface verification
var _ ports.StateStore = (*FileStore)(nil)

// NewFileStore creates a FileStore for the given store file path
func NewFileStore(path string) *FileStore {
	return &FileStore{
		lockWait: defaultLockWait,
		now:      time.Now,
		path:     path,
	}
}

// ApplyEvent merges one event into the store under the store lock
func (s *FileStore) ApplyEvent(ctx context.Context, ev domain.HookEvent, out domain.Outcome) (ports.ApplyResult, error) {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return ports.ApplyResult{}, err
	}
	defer unlock()

	doc := s.load()
	rec, exists := doc.Sessions[ev.SessionID]

	if out.Action == domain.ActionDelete {
		if !exists {
			return ports.ApplyResult{Deleted: true}, nil
		}
		delete(doc.Sessions, ev.SessionID)
		if err := s.write(doc); err != nil {
			return ports.ApplyResult{}, err
		}
		return ports.ApplyResult{Deleted: true, StateChanged: true}, nil
	}

	// No partial records: an event that cannot be placed in a project and
	// has no prior record is dropped entirely.
	if !exists && ev.CWD == "" && ev.ProjectDir == "" {
		logging.Logger.Debug("Dropping event with no resolvable cwd",
			"session_id", ev.SessionID, "kind", ev.Kind)
		return ports.ApplyResult{Skipped: true}, nil
	}

	prevState := rec.State
	rec = domain.Apply(rec, ev, out, s.now())
	doc.Sessions[ev.SessionID] = rec

	if err := s.write(doc); err != nil {
		return ports.ApplyResult{}, err
	}

	return ports.ApplyResult{
		Record:       rec,
		StateChanged: rec.State != prevState,
	}, nil
}

// Enrich attaches summarizer output to an existing record. A session that
// ended in the meantime is not resurrected.
func (s *FileStore) Enrich(ctx context.Context, sessionID string, enr domain.Enrichment) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	doc := s.load()
	rec, exists := doc.Sessions[sessionID]
	if !exists {
		return nil
	}

	rec.WorkingOn = enr.WorkingOn
	rec.NextStep = enr.NextStep
	doc.Sessions[sessionID] = rec

	return s.write(doc)
}

// ReadAll returns the full session collection without taking the lock; the
// rename-based write path guarantees any file it finds parses whole.
func (s *FileStore) ReadAll(ctx context.Context) (domain.SessionCollection, error) {
	return s.load().Sessions, nil
}

// load reads the store, treating a missing, unparsable, or version-mismatched
// file as empty.
func (s *FileStore) load() document {
	empty := document{Sessions: make(domain.SessionCollection), Version: SchemaVersion}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Logger.Warn("Failed to read store, starting empty", "error", err)
		}
		return empty
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logging.Logger.Warn("Store file unparsable, starting empty", "error", err)
		return empty
	}

	if doc.Version != SchemaVersion {
		logging.Logger.Warn("Store schema version mismatch, discarding state",
			"found", doc.Version, "want", SchemaVersion)
		return empty
	}

	if doc.Sessions == nil {
		doc.Sessions = make(domain.SessionCollection)
	}
	return doc
}

// write replaces the store file atomically
func (s *FileStore) write(doc document) error {
	doc.Version = SchemaVersion

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sessions-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp store file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// acquireLock takes the sidecar advisory lock with a bounded wait
func (s *FileStore) acquireLock(ctx context.Context) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	file, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(s.lockWait)
	for {
		err := tryLockFile(file)
		if err == nil {
			break
		}
		if !errors.Is(err, errWouldBlock) {
			file.Close()
			return nil, fmt.Errorf("failed to acquire store lock: %w", err)
		}
		if time.Now().After(deadline) {
			file.Close()
			return nil, domain.ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			file.Close()
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return func() {
		unlockFile(file)
		file.Close()
	}, nil
}
