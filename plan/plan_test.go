package plan_test

import (
	"testing"
	"time"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanner_Plan_NewBookmark(t *testing.T) {
	t.Parallel()

	p := plan.New()
	now := time.Now()
	observed := []bogrep.SourceBookmark{
		{URL: "https://example.com/a", Source: bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple}},
	}

	decisions := p.Plan(nil, observed, nil, now)

	require.Len(t, decisions, 1)
	assert.Equal(t, bogrep.ActionFetchAndAdd, decisions[0].Action)
	assert.Equal(t, bogrep.StatusAdded, decisions[0].Bookmark.Status)
	assert.NotEmpty(t, decisions[0].Bookmark.ID)
}

func TestPlanner_Plan_IgnoredNewBookmark(t *testing.T) {
	t.Parallel()

	p := plan.New()
	ignore := bogrep.NewIgnoreList([]string{"https://example.com/a"})
	observed := []bogrep.SourceBookmark{{URL: "https://example.com/a"}}

	decisions := p.Plan(nil, observed, ignore, time.Now())

	require.Len(t, decisions, 1)
	assert.Equal(t, bogrep.ActionNone, decisions[0].Action)
	assert.Equal(t, bogrep.StatusIgnored, decisions[0].Bookmark.Status)
}

func TestPlanner_Plan_AlreadyCachedIsNoop(t *testing.T) {
	t.Parallel()

	p := plan.New()
	cachedAt := time.Now().Add(-time.Hour)
	index := []*bogrep.TargetBookmark{
		{ID: "id-1", URL: "https://example.com/a", LastCached: &cachedAt, Status: bogrep.StatusFetchedSuccess},
	}
	observed := []bogrep.SourceBookmark{{URL: "https://example.com/a"}}

	decisions := p.Plan(index, observed, nil, time.Now())

	require.Len(t, decisions, 1)
	assert.Equal(t, bogrep.ActionNone, decisions[0].Action)
}

func TestPlanner_Plan_FailedFetchRetried(t *testing.T) {
	t.Parallel()

	p := plan.New()
	index := []*bogrep.TargetBookmark{
		{ID: "id-1", URL: "https://example.com/a", Status: bogrep.StatusFetchedFailed},
	}
	observed := []bogrep.SourceBookmark{{URL: "https://example.com/a"}}

	decisions := p.Plan(index, observed, nil, time.Now())

	require.Len(t, decisions, 1)
	assert.Equal(t, bogrep.ActionFetchAndAdd, decisions[0].Action)
}

func TestPlanner_Plan_NoLongerObservedIsRemoved(t *testing.T) {
	t.Parallel()

	p := plan.New()
	index := []*bogrep.TargetBookmark{
		{ID: "id-1", URL: "https://example.com/a", Sources: []bogrep.SourceDescriptor{{Kind: bogrep.SourceKindSimple}}},
	}

	decisions := p.Plan(index, nil, nil, time.Now())

	require.Len(t, decisions, 1)
	assert.Equal(t, bogrep.ActionRemove, decisions[0].Action)
}

func TestPlanner_Plan_InternalSurvivesSourceRemoval(t *testing.T) {
	t.Parallel()

	p := plan.New()
	index := []*bogrep.TargetBookmark{
		{ID: "id-1", URL: "https://example.com/a", Sources: []bogrep.SourceDescriptor{{Kind: bogrep.SourceKindInternal}}},
	}

	decisions := p.Plan(index, nil, nil, time.Now())

	assert.Empty(t, decisions)
	assert.Equal(t, bogrep.ActionNone, index[0].Action)
}

func TestPlanner_Plan_IgnoredExistingPurgesCache(t *testing.T) {
	t.Parallel()

	p := plan.New()
	cachedAt := time.Now()
	index := []*bogrep.TargetBookmark{
		{
			ID:         "id-1",
			URL:        "https://example.com/a",
			LastCached: &cachedAt,
			CacheModes: []bogrep.CacheMode{bogrep.CacheModeText},
			Status:     bogrep.StatusFetchedSuccess,
		},
	}
	ignore := bogrep.NewIgnoreList([]string{"https://example.com/a"})
	observed := []bogrep.SourceBookmark{{URL: "https://example.com/a"}}

	decisions := p.Plan(index, observed, ignore, time.Now())

	require.Len(t, decisions, 1)
	assert.Equal(t, bogrep.ActionDeleteCache, decisions[0].Action)
	assert.Equal(t, bogrep.StatusIgnored, decisions[0].Bookmark.Status)
}

func TestMerge_FetchAndDiffBeatsFetchAndReplace(t *testing.T) {
	t.Parallel()

	b := &bogrep.TargetBookmark{ID: "id-1", URL: "https://example.com/a"}
	base := []bogrep.Decision{{Bookmark: b, Action: bogrep.ActionFetchAndReplace}}
	override := []bogrep.Decision{{Bookmark: b, Action: bogrep.ActionFetchAndDiff}}

	merged := plan.Merge(base, override)

	require.Len(t, merged, 1)
	assert.Equal(t, bogrep.ActionFetchAndDiff, merged[0].Action)
}

func TestMerge_RemoveBeatsFetch(t *testing.T) {
	t.Parallel()

	b := &bogrep.TargetBookmark{ID: "id-1", URL: "https://example.com/a"}
	base := []bogrep.Decision{{Bookmark: b, Action: bogrep.ActionRemove}}
	override := []bogrep.Decision{{Bookmark: b, Action: bogrep.ActionFetchAndReplace}}

	merged := plan.Merge(base, override)

	require.Len(t, merged, 1)
	assert.Equal(t, bogrep.ActionRemove, merged[0].Action)
}
