// Package plan implements the action planner: a pure function that diffs
// observed source bookmarks against the target store and assigns exactly
// one action to each tracked entity.
package plan

import (
	"time"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/store"
)

var _ bogrep.Planner = (*Planner)(nil)

// Planner implements bogrep.Planner. It holds no state; Plan is a pure
// function of its arguments.
type Planner struct{}

// New creates a Planner.
func New() *Planner {
	return &Planner{}
}

// Plan diffs observed against index and returns a Decision per affected
// bookmark. observed is the full set of SourceBookmark observations from
// every currently configured, non-ignored source for this run; an
// existing entity with no matching observation and no internal source is
// slated for removal.
func (p *Planner) Plan(index []*bogrep.TargetBookmark, observed []bogrep.SourceBookmark, ignore bogrep.IgnoreList, now time.Time) []bogrep.Decision {
	byURL := make(map[string]*bogrep.TargetBookmark, len(index))
	for _, b := range index {
		byURL[b.URL] = b
	}

	seen := make(map[string]bool, len(observed))
	var decisions []bogrep.Decision

	for _, obs := range observed {
		seen[obs.URL] = true
		existing, ok := byURL[obs.URL]
		if !ok {
			nb := &bogrep.TargetBookmark{
				ID:           store.NewID(),
				URL:          obs.URL,
				Title:        obs.Title,
				Sources:      []bogrep.SourceDescriptor{obs.Source},
				LastImported: now,
			}
			if ignore.Match(obs.URL) {
				nb.Status = bogrep.StatusIgnored
				nb.Action = bogrep.ActionNone
			} else {
				nb.Status = bogrep.StatusAdded
				nb.Action = bogrep.ActionFetchAndAdd
			}
			byURL[obs.URL] = nb
			decisions = append(decisions, bogrep.Decision{Bookmark: nb, Action: nb.Action})
			continue
		}

		existing.Title = obs.Title
		existing.LastImported = now
		if !hasSource(existing.Sources, obs.Source) {
			existing.Sources = append(existing.Sources, obs.Source)
		}

		action := planExisting(existing, ignore)
		existing.Action = action
		decisions = append(decisions, bogrep.Decision{Bookmark: existing, Action: action})
	}

	for _, b := range index {
		if seen[b.URL] {
			continue
		}
		if b.HasSource(bogrep.SourceKindInternal) {
			b.Action = bogrep.ActionNone
			continue
		}
		b.Action = bogrep.ActionRemove
		decisions = append(decisions, bogrep.Decision{Bookmark: b, Action: bogrep.ActionRemove})
	}

	return decisions
}

// planExisting decides the action for a bookmark that survived this run's
// observation pass.
func planExisting(b *bogrep.TargetBookmark, ignore bogrep.IgnoreList) bogrep.Action {
	if ignore.Match(b.URL) {
		b.Status = bogrep.StatusIgnored
		if len(b.CacheModes) > 0 {
			return bogrep.ActionDeleteCache
		}
		return bogrep.ActionNone
	}

	if b.Status == bogrep.StatusIgnored {
		b.Status = bogrep.StatusAdded
	}

	if b.LastCached == nil {
		return bogrep.ActionFetchAndAdd
	}

	return bogrep.ActionNone
}

// PlanReplace marks every bookmark in index whose URL is in urls (or every
// bookmark, if urls is empty) for FetchAndReplace. Used by `fetch
// --replace`, scoped by `--urls` when that flag is given.
func PlanReplace(index []*bogrep.TargetBookmark, urls []string) []bogrep.Decision {
	match := matchSet(urls)
	var decisions []bogrep.Decision
	for _, b := range index {
		if b.Status == bogrep.StatusRemoved || b.Status == bogrep.StatusIgnored {
			continue
		}
		if match != nil && !match[b.URL] {
			continue
		}
		b.Action = bogrep.ActionFetchAndReplace
		decisions = append(decisions, bogrep.Decision{Bookmark: b, Action: bogrep.ActionFetchAndReplace})
	}
	return decisions
}

// PlanDiff marks every bookmark in index whose URL is in urls for
// FetchAndDiff. FetchAndDiff wins over FetchAndReplace when both would
// apply to the same entity in one run.
func PlanDiff(index []*bogrep.TargetBookmark, urls []string) []bogrep.Decision {
	match := matchSet(urls)
	var decisions []bogrep.Decision
	for _, b := range index {
		if match != nil && !match[b.URL] {
			continue
		}
		b.Action = bogrep.ActionFetchAndDiff
		decisions = append(decisions, bogrep.Decision{Bookmark: b, Action: bogrep.ActionFetchAndDiff})
	}
	return decisions
}

// Merge combines two decision sets for the same run, applying the tie
// break rules: FetchAndDiff beats FetchAndReplace; Remove and
// DeleteCache are mutually exclusive with any fetch action for the
// same id.
func Merge(base, override []bogrep.Decision) []bogrep.Decision {
	byID := make(map[bogrep.ID]bogrep.Decision, len(base))
	order := make([]bogrep.ID, 0, len(base))
	for _, d := range base {
		if _, ok := byID[d.Bookmark.ID]; !ok {
			order = append(order, d.Bookmark.ID)
		}
		byID[d.Bookmark.ID] = d
	}
	for _, d := range override {
		existing, ok := byID[d.Bookmark.ID]
		if !ok {
			order = append(order, d.Bookmark.ID)
			byID[d.Bookmark.ID] = d
			continue
		}
		byID[d.Bookmark.ID] = resolveTieBreak(existing, d)
	}
	out := make([]bogrep.Decision, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func resolveTieBreak(a, b bogrep.Decision) bogrep.Decision {
	if isRemoveLike(a.Action) || isRemoveLike(b.Action) {
		if isRemoveLike(a.Action) {
			return a
		}
		return b
	}
	if a.Action == bogrep.ActionFetchAndDiff || b.Action == bogrep.ActionFetchAndDiff {
		winner := a
		if b.Action == bogrep.ActionFetchAndDiff {
			winner = b
		}
		winner.Bookmark.Action = bogrep.ActionFetchAndDiff
		return winner
	}
	return b
}

func isRemoveLike(a bogrep.Action) bool {
	return a == bogrep.ActionRemove || a == bogrep.ActionDeleteCache
}

func hasSource(sources []bogrep.SourceDescriptor, s bogrep.SourceDescriptor) bool {
	for _, existing := range sources {
		if existing == s {
			return true
		}
	}
	return false
}

func matchSet(urls []string) map[string]bool {
	if len(urls) == 0 {
		return nil
	}
	m := make(map[string]bool, len(urls))
	for _, u := range urls {
		m[u] = true
	}
	return m
}
