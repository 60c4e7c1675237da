package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petekp/sessiontrack/internal/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
}

func apply(t *testing.T, s *FileStore, ev domain.HookEvent) {
	t.Helper()
	_, err := s.ApplyEvent(context.Background(), ev, domain.Transition(ev))
	require.NoError(t, err)
}

func TestApplyEvent_UpsertCreatesRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev := domain.HookEvent{Kind: domain.EventSessionStart, SessionID: "s1", CWD: "/p"}
	res, err := s.ApplyEvent(ctx, ev, domain.Transition(ev))
	require.NoError(t, err)
	assert.True(t, res.StateChanged)
	assert.Equal(t, domain.StateReady, res.Record.State)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, all, "s1")
	assert.Equal(t, "/p", all["s1"].CWD)
}

func TestApplyEvent_SessionEndDeletesTotally(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	apply(t, s, domain.HookEvent{Kind: domain.EventSessionStart, SessionID: "s1", CWD: "/p"})
	apply(t, s, domain.HookEvent{Kind: domain.EventSessionEnd, SessionID: "s1", CWD: "/p"})

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "s1")
}

func TestApplyEvent_MissingCWDNoRecordDrops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev := domain.HookEvent{Kind: domain.EventUserPromptSubmit, SessionID: "ghost"}
	res, err := s.ApplyEvent(ctx, ev, domain.Transition(ev))
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "ghost")
}

func TestApplyEvent_MissingCWDWithRecordPreservesPath(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	apply(t, s, domain.HookEvent{Kind: domain.EventSessionStart, SessionID: "s1", CWD: "/home/u/proj"})

	before, err := s.ReadAll(ctx)
	require.NoError(t, err)

	apply(t, s, domain.HookEvent{Kind: domain.EventUserPromptSubmit, SessionID: "s1"})

	after, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/home/u/proj", after["s1"].CWD)
	assert.Equal(t, domain.StateWorking, after["s1"].State)
	assert.True(t, after["s1"].UpdatedAt.After(before["s1"].UpdatedAt) ||
		after["s1"].UpdatedAt.Equal(before["s1"].UpdatedAt))
}

func TestApplyEvent_IdempotentReaffirmation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	clock := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	post := domain.HookEvent{Kind: domain.EventPostToolUse, SessionID: "s1", CWD: "/p", ToolName: "Bash"}
	apply(t, s, post)

	first, err := s.ReadAll(ctx)
	require.NoError(t, err)

	apply(t, s, post)

	second, err := s.ReadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first["s1"].StateChangedAt, second["s1"].StateChangedAt)
	assert.True(t, second["s1"].UpdatedAt.After(first["s1"].UpdatedAt))
}

func TestApplyEvent_FullLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	steps := []struct {
		ev   domain.HookEvent
		want domain.SessionState
	}{
		{domain.HookEvent{Kind: domain.EventSessionStart, SessionID: "A", CWD: "/p"}, domain.StateReady},
		{domain.HookEvent{Kind: domain.EventUserPromptSubmit, SessionID: "A", CWD: "/p"}, domain.StateWorking},
		{domain.HookEvent{Kind: domain.EventPermissionRequest, SessionID: "A", CWD: "/p"}, domain.StateWaiting},
		{domain.HookEvent{Kind: domain.EventStop, SessionID: "A", CWD: "/p"}, domain.StateReady},
	}

	for _, step := range steps {
		apply(t, s, step.ev)
		all, err := s.ReadAll(ctx)
		require.NoError(t, err)
		require.Contains(t, all, "A")
		assert.Equal(t, step.want, all["A"].State)
	}

	apply(t, s, domain.HookEvent{Kind: domain.EventSessionEnd, SessionID: "A", CWD: "/p"})
	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "A")
}

func TestApplyEvent_ConcurrentUpsertsNoLostUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := domain.HookEvent{
				Kind:      domain.EventSessionStart,
				SessionID: fmt.Sprintf("s%02d", i),
				CWD:       fmt.Sprintf("/proj/%02d", i),
			}
			_, err := s.ApplyEvent(ctx, ev, domain.Transition(ev))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// File must parse and contain every session
	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Sessions, n)
}

func TestReadAll_AbsentFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	all, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoad_VersionMismatchReinitializes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := `{"version": 99, "sessions": {"old": {"session_id": "old", "cwd": "/p", "state": "working"}}}`
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0755))
	require.NoError(t, os.WriteFile(s.path, []byte(stale), 0644))

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// A write rewrites the document at the current version
	apply(t, s, domain.HookEvent{Kind: domain.EventSessionStart, SessionID: "new", CWD: "/p"})

	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaVersion, doc.Version)
	assert.NotContains(t, doc.Sessions, "old")
	assert.Contains(t, doc.Sessions, "new")
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0755))
	require.NoError(t, os.WriteFile(s.path, []byte("{truncated"), 0644))

	all, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEnrich_AttachesSummaryFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	apply(t, s, domain.HookEvent{Kind: domain.EventSessionStart, SessionID: "s1", CWD: "/p"})

	err := s.Enrich(ctx, "s1", domain.Enrichment{WorkingOn: "refactor", NextStep: "run tests"})
	require.NoError(t, err)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refactor", all["s1"].WorkingOn)
	assert.Equal(t, "run tests", all["s1"].NextStep)
}

func TestEnrich_MissingSessionIsNoop(t *testing.T) {
	s := newTestStore(t)
	err := s.Enrich(context.Background(), "gone", domain.Enrichment{WorkingOn: "x"})
	require.NoError(t, err)

	all, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
