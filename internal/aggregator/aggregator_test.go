package aggregator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/ports"
)

// storeStub serves a fixed session collection
type storeStub struct {
	sessions domain.SessionCollection
}

func (s *storeStub) ApplyEvent(ctx context.Context, ev domain.HookEvent, out domain.Outcome) (ports.ApplyResult, error) {
	return ports.ApplyResult{}, nil
}

func (s *storeStub) Enrich(ctx context.Context, sessionID string, enr domain.Enrichment) error {
	return nil
}

func (s *storeStub) ReadAll(ctx context.Context) (domain.SessionCollection, error) {
	return s.sessions, nil
}

// fakePublisher records published views
type fakePublisher struct {
	mu    sync.Mutex
	views []map[string]domain.ProjectSummary
}

func (f *fakePublisher) Publish(ctx context.Context, view map[string]domain.ProjectSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, view)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.views)
}

func TestRollup_PicksMostRecentStateChange(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	store := &storeStub{sessions: domain.SessionCollection{
		"old": {
			CWD:            "/home/u/proj/a",
			SessionID:      "old",
			State:          domain.StateReady,
			StateChangedAt: base,
			UpdatedAt:      base,
		},
		"new": {
			CWD:            "/home/u/proj/b",
			NextStep:       "write tests",
			SessionID:      "new",
			State:          domain.StateWorking,
			StateChangedAt: base.Add(time.Minute),
			UpdatedAt:      base.Add(2 * time.Minute),
			WorkingOn:      "decoder",
		},
		"elsewhere": {
			CWD:            "/srv/other",
			SessionID:      "elsewhere",
			State:          domain.StateWaiting,
			StateChangedAt: base.Add(time.Hour),
			UpdatedAt:      base.Add(time.Hour),
		},
	}}

	a := New(store, &fakePublisher{}, []string{"/home/u/proj"}, filepath.Join(t.TempDir(), "pending"), time.Millisecond)

	view, err := a.Rollup(context.Background())
	require.NoError(t, err)
	require.Contains(t, view, "/home/u/proj")

	got := view["/home/u/proj"]
	assert.Equal(t, domain.StateWorking, got.State)
	assert.Equal(t, "decoder", got.WorkingOn)
	assert.Equal(t, "write tests", got.NextStep)
	assert.Equal(t, base.Add(2*time.Minute), got.LastUpdated)
}

func TestRollup_SkipsStatelessRecords(t *testing.T) {
	store := &storeStub{sessions: domain.SessionCollection{
		"touched-only": {CWD: "/p/x", SessionID: "touched-only", UpdatedAt: time.Now()},
	}}

	a := New(store, &fakePublisher{}, []string{"/p"}, filepath.Join(t.TempDir(), "pending"), time.Millisecond)

	view, err := a.Rollup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view)
}

func TestRollup_MultipleProjects(t *testing.T) {
	now := time.Now()
	store := &storeStub{sessions: domain.SessionCollection{
		"a": {CWD: "/p/one", SessionID: "a", State: domain.StateWorking, StateChangedAt: now, UpdatedAt: now},
		"b": {CWD: "/p/two/sub", SessionID: "b", State: domain.StateWaiting, StateChangedAt: now, UpdatedAt: now},
	}}

	a := New(store, &fakePublisher{}, []string{"/p/one", "/p/two", "/p/three"}, filepath.Join(t.TempDir(), "pending"), time.Millisecond)

	view, err := a.Rollup(context.Background())
	require.NoError(t, err)
	assert.Len(t, view, 2)
	assert.Equal(t, domain.StateWorking, view["/p/one"].State)
	assert.Equal(t, domain.StateWaiting, view["/p/two"].State)
}

func TestDebounce_LastWriterWins(t *testing.T) {
	pending := filepath.Join(t.TempDir(), "publish.pending")
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	results := make(chan bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			proceed, err := Debounce(ctx, pending, 50*time.Millisecond)
			require.NoError(t, err)
			results <- proceed
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for proceed := range results {
		if proceed {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one publisher proceeds per burst")
}

func TestPublishDebounced_CoalescesBurst(t *testing.T) {
	now := time.Now()
	store := &storeStub{sessions: domain.SessionCollection{
		"a": {CWD: "/p", SessionID: "a", State: domain.StateWorking, StateChangedAt: now, UpdatedAt: now},
	}}
	pub := &fakePublisher{}
	pending := filepath.Join(t.TempDir(), "publish.pending")

	a := New(store, pub, []string{"/p"}, pending, 30*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.PublishDebounced(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, pub.count())

	// Marker cleaned up after the attempt
	_, statErr := os.Stat(pending)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPublishNow_EmptyViewSkipsDelivery(t *testing.T) {
	store := &storeStub{sessions: domain.SessionCollection{}}
	pub := &fakePublisher{}

	a := New(store, pub, []string{"/p"}, filepath.Join(t.TempDir(), "pending"), time.Millisecond)
	a.PublishNow(context.Background())

	assert.Zero(t, pub.count())
}
