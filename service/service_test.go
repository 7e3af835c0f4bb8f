package service_test

import (
	"context"
	"testing"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/mock"
	"github.com/fwojciec/bogrep/plan"
	"github.com/fwojciec/bogrep/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	observed []bogrep.SourceBookmark
	err      error
}

func (r *stubReader) Read(ctx context.Context, sources []bogrep.Source) ([]bogrep.SourceBookmark, error) {
	return r.observed, r.err
}

func noopLock() *mock.Lock {
	return &mock.Lock{
		AcquireFn: func() error { return nil },
		ReleaseFn: func() error { return nil },
	}
}

func TestService_Import_SavesPlannedIndex(t *testing.T) {
	t.Parallel()

	var saved []*bogrep.TargetBookmark
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) { return nil, nil },
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			saved = index
			return nil
		},
	}
	reader := &stubReader{observed: []bogrep.SourceBookmark{
		{URL: "https://example.com/a", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple}},
	}}

	svc := &service.Service{
		Reader:  reader,
		Store:   st,
		Planner: realPlanner(t),
		Lock:    noopLock(),
	}

	report, err := svc.Import(context.Background(), bogrep.Settings{}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	require.Len(t, saved, 1)
	assert.Equal(t, "https://example.com/a", saved[0].URL)
	assert.Equal(t, bogrep.ActionFetchAndAdd, saved[0].Action)
}

func TestService_Import_DryRunDoesNotSave(t *testing.T) {
	t.Parallel()

	var saveCalled bool
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) { return nil, nil },
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			saveCalled = true
			return nil
		},
	}
	reader := &stubReader{observed: []bogrep.SourceBookmark{
		{URL: "https://example.com/a", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple}},
	}}

	svc := &service.Service{Reader: reader, Store: st, Planner: realPlanner(t), Lock: noopLock()}

	report, err := svc.Import(context.Background(), bogrep.Settings{}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DryRun)
	assert.False(t, saveCalled)
}

func TestService_Fetch_RunsSchedulerAndSaves(t *testing.T) {
	t.Parallel()

	b := &bogrep.TargetBookmark{ID: "1", URL: "https://example.com/a", Action: bogrep.ActionFetchAndAdd}
	var savedOnce bool
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{b}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			savedOnce = true
			return nil
		},
	}
	var gotDecisions []bogrep.Decision
	sched := &mock.Scheduler{RunFn: func(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
		gotDecisions = decisions
		return &bogrep.Report{Total: len(decisions), Processed: len(decisions)}, nil
	}}

	svc := &service.Service{Store: st, Scheduler: sched, Lock: noopLock()}

	report, err := svc.Fetch(context.Background(), service.FetchOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	require.Len(t, gotDecisions, 1)
	assert.Equal(t, "https://example.com/a", gotDecisions[0].Bookmark.URL)
	assert.True(t, savedOnce)
}

func TestService_Add_CreatesInternalBookmark(t *testing.T) {
	t.Parallel()

	var saved []*bogrep.TargetBookmark
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) { return nil, nil },
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			saved = index
			return nil
		},
	}

	svc := &service.Service{Store: st, Lock: noopLock()}

	err := svc.Add(context.Background(), []string{"https://example.com/a"})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].HasSource(bogrep.SourceKindInternal))
	assert.Equal(t, bogrep.ActionFetchAndAdd, saved[0].Action)
}

func TestService_Remove_DropsMatchedAndPurgesCache(t *testing.T) {
	t.Parallel()

	keep := &bogrep.TargetBookmark{ID: "keep", URL: "https://example.com/keep"}
	drop := &bogrep.TargetBookmark{ID: "drop", URL: "https://example.com/drop"}

	var saved []*bogrep.TargetBookmark
	var removedID bogrep.ID
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{keep, drop}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			saved = index
			return nil
		},
	}
	cache := &mock.Cache{RemoveFn: func(id bogrep.ID) error {
		removedID = id
		return nil
	}}

	svc := &service.Service{Store: st, Cache: cache, Lock: noopLock()}

	err := svc.Remove(context.Background(), []string{"https://example.com/drop"})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "https://example.com/keep", saved[0].URL)
	assert.Equal(t, bogrep.ID("drop"), removedID)
}

func TestService_Import_URLRestrictionDoesNotRemoveOthers(t *testing.T) {
	t.Parallel()

	tracked := &bogrep.TargetBookmark{
		ID:      "id-1",
		URL:     "https://example.com/tracked",
		Sources: []bogrep.SourceDescriptor{{Kind: bogrep.SourceKindSimple}},
	}
	var saved []*bogrep.TargetBookmark
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{tracked}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			saved = index
			return nil
		},
	}
	reader := &stubReader{observed: []bogrep.SourceBookmark{
		{URL: "https://example.com/new", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple}},
		{URL: "https://example.com/other", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple}},
	}}

	svc := &service.Service{Reader: reader, Store: st, Planner: realPlanner(t), Lock: noopLock()}

	_, err := svc.Import(context.Background(), bogrep.Settings{}, []string{"https://example.com/new"}, false)
	require.NoError(t, err)

	var urls []string
	for _, b := range saved {
		urls = append(urls, b.URL)
	}
	assert.ElementsMatch(t, []string{"https://example.com/tracked", "https://example.com/new"}, urls)
	assert.Equal(t, bogrep.ActionNone, tracked.Action)
}

func TestService_Fetch_MergesDiscoveredUnderlying(t *testing.T) {
	t.Parallel()

	b := &bogrep.TargetBookmark{ID: "id-1", URL: "https://news.ycombinator.com/item?id=1", Action: bogrep.ActionFetchAndAdd}
	var saved []*bogrep.TargetBookmark
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{b}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			saved = index
			return nil
		},
	}
	sched := &mock.Scheduler{RunFn: func(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
		return &bogrep.Report{
			Discovered: []*bogrep.TargetBookmark{{
				ID:      "underlying-1",
				URL:     "https://blog.example.com/post",
				Sources: []bogrep.SourceDescriptor{{Kind: bogrep.SourceKindUnderlying, UnderlyingOf: "id-1"}},
				Status:  bogrep.StatusFetchedSuccess,
			}},
		}, nil
	}}

	svc := &service.Service{Store: st, Scheduler: sched, Lock: noopLock()}

	_, err := svc.Fetch(context.Background(), service.FetchOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "https://blog.example.com/post", saved[1].URL)
	assert.True(t, saved[1].HasSource(bogrep.SourceKindUnderlying))
}

func TestService_Fetch_DropsRemovedFromSavedIndex(t *testing.T) {
	t.Parallel()

	removed := &bogrep.TargetBookmark{ID: "gone", URL: "https://example.com/gone", Action: bogrep.ActionRemove}
	kept := &bogrep.TargetBookmark{ID: "kept", URL: "https://example.com/kept"}
	var saved []*bogrep.TargetBookmark
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{removed, kept}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error {
			saved = index
			return nil
		},
	}
	sched := &mock.Scheduler{RunFn: func(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
		for _, d := range decisions {
			if d.Action == bogrep.ActionRemove {
				d.Bookmark.Status = bogrep.StatusRemoved
			}
		}
		return &bogrep.Report{}, nil
	}}

	svc := &service.Service{Store: st, Scheduler: sched, Lock: noopLock()}

	_, err := svc.Fetch(context.Background(), service.FetchOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "https://example.com/kept", saved[0].URL)
}

func TestService_Clean_PurgesOrphanedArtifacts(t *testing.T) {
	t.Parallel()

	live := &bogrep.TargetBookmark{ID: "live", URL: "https://example.com/live", CacheModes: []bogrep.CacheMode{bogrep.CacheModeText}}
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{live}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error { return nil },
	}
	var removedIDs []bogrep.ID
	cache := &mock.Cache{
		ListFn: func() ([]bogrep.Artifact, error) {
			return []bogrep.Artifact{
				{ID: "live", Mode: bogrep.CacheModeText},
				{ID: "orphan", Mode: bogrep.CacheModeText},
				{ID: "orphan", Mode: bogrep.CacheModeHTML},
			}, nil
		},
		RemoveFn: func(id bogrep.ID) error {
			removedIDs = append(removedIDs, id)
			return nil
		},
	}

	svc := &service.Service{Store: st, Cache: cache, Lock: noopLock()}

	removed, err := svc.Clean(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []bogrep.ID{"orphan"}, removedIDs)
	assert.NotEmpty(t, live.CacheModes)
}

func TestService_Clean_AllPurgesIgnored(t *testing.T) {
	t.Parallel()

	ignored := &bogrep.TargetBookmark{
		ID:         "ignored",
		URL:        "https://example.com/ignored",
		Status:     bogrep.StatusIgnored,
		CacheModes: []bogrep.CacheMode{bogrep.CacheModeText},
	}
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{ignored}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error { return nil },
	}
	var removedIDs []bogrep.ID
	cache := &mock.Cache{
		ListFn: func() ([]bogrep.Artifact, error) {
			return []bogrep.Artifact{{ID: "ignored", Mode: bogrep.CacheModeText}}, nil
		},
		RemoveFn: func(id bogrep.ID) error {
			removedIDs = append(removedIDs, id)
			return nil
		},
	}

	svc := &service.Service{Store: st, Cache: cache, Lock: noopLock()}

	removed, err := svc.Clean(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []bogrep.ID{"ignored"}, removedIDs)
	assert.Empty(t, ignored.CacheModes)
}

func TestService_Fetch_LockHeldAcrossCall(t *testing.T) {
	t.Parallel()

	var acquired, released bool
	lock := &mock.Lock{
		AcquireFn: func() error { acquired = true; return nil },
		ReleaseFn: func() error { released = true; return nil },
	}
	st := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) { return nil, nil },
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error { return nil },
	}
	sched := &mock.Scheduler{RunFn: func(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
		assert.True(t, acquired)
		assert.False(t, released)
		return &bogrep.Report{}, nil
	}}

	svc := &service.Service{Store: st, Scheduler: sched, Lock: lock}
	_, err := svc.Fetch(context.Background(), service.FetchOptions{}, nil)
	require.NoError(t, err)
	assert.True(t, released)
}

// realPlanner exercises the real planner rather than a mock, since
// Import's contract depends on it producing real Decisions.
func realPlanner(t *testing.T) bogrep.Planner {
	t.Helper()
	return plan.New()
}
