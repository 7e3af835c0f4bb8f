// Package service wires the source readers, target store, planner,
// cache, and fetch scheduler into the operations a subcommand invokes:
// import, sync, fetch, add, remove, clean.
package service

import (
	"context"
	"time"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/plan"
	"github.com/fwojciec/bogrep/store"
)

// SourceReader fans out across every configured source and merges the
// resulting observations, matching reader.Composite's signature without
// importing it, so the facade can be tested against a mock.
type SourceReader interface {
	Read(ctx context.Context, sources []bogrep.Source) ([]bogrep.SourceBookmark, error)
}

// Service composes the readers, store, planner, scheduler and cache
// for the top-level bogrep operations. The index is loaded at the
// start of each operation and saved at the end, under the run lock
// acquired for the duration of the call.
type Service struct {
	Reader    SourceReader
	Store     bogrep.Store
	Planner   bogrep.Planner
	Scheduler bogrep.Scheduler
	Cache     bogrep.Cache
	Lock      bogrep.Lock
}

// FetchOptions selects which bookmarks a fetch operation targets and
// how, matching the `fetch` subcommand's flags.
type FetchOptions struct {
	Replace bool
	Diff    []string
	URLs    []string
}

// withLock runs fn holding the run lock, releasing it on every return
// path including a cancelled context.
func (s *Service) withLock(fn func() error) error {
	if err := s.Lock.Acquire(); err != nil {
		return err
	}
	defer s.Lock.Release()
	return fn()
}

// Import reads every configured, non-ignored source, plans the
// resulting additions/removals, and persists the updated index. A
// non-empty urls list restricts the observation set to those URLs. When
// dryRun is true the index is planned but never saved.
func (s *Service) Import(ctx context.Context, settings bogrep.Settings, urls []string, dryRun bool) (*bogrep.Report, error) {
	var report bogrep.Report
	err := s.withLock(func() error {
		index, err := s.Store.Load(ctx)
		if err != nil {
			return err
		}

		observed, err := s.Reader.Read(ctx, settings.Sources)
		if err != nil {
			return err
		}
		if len(urls) > 0 {
			match := make(map[string]bool, len(urls))
			for _, u := range urls {
				match[u] = true
			}
			kept := observed[:0:0]
			for _, o := range observed {
				if match[o.URL] {
					kept = append(kept, o)
				}
			}
			observed = kept
		}

		ignore := bogrep.NewIgnoreList(settings.IgnoredURLs)
		decisions := s.Planner.Plan(index, observed, ignore, time.Now())
		if len(urls) > 0 {
			// A restricted import sees only a slice of the sources, so
			// absence from the observation set proves nothing; keep every
			// bookmark the restriction excluded.
			kept := decisions[:0:0]
			for _, d := range decisions {
				if d.Action == bogrep.ActionRemove {
					d.Bookmark.Action = bogrep.ActionNone
					continue
				}
				kept = append(kept, d)
			}
			decisions = kept
		}
		report.Total = len(decisions)
		report.Processed = len(decisions)

		if dryRun {
			report.DryRun = len(decisions)
			return nil
		}
		return s.Store.Save(ctx, mergedIndex(index, decisions))
	})
	return &report, err
}

// Fetch executes the scheduler against the current index, optionally
// scoped to opts.URLs, with --replace/--diff overrides layered on top
// of the planner's own recommendations via plan.Merge.
func (s *Service) Fetch(ctx context.Context, opts FetchOptions, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
	var report *bogrep.Report
	err := s.withLock(func() error {
		index, err := s.Store.Load(ctx)
		if err != nil {
			return err
		}

		decisions := filterNone(index, opts.URLs)
		if opts.Replace {
			decisions = plan.Merge(decisions, plan.PlanReplace(index, opts.URLs))
		}
		if len(opts.Diff) > 0 {
			decisions = plan.Merge(decisions, plan.PlanDiff(index, opts.Diff))
		}

		report, err = s.Scheduler.Run(ctx, decisions, progress)
		if err != nil {
			return err
		}

		byURL := make(map[string]bool, len(index))
		for _, b := range index {
			byURL[b.URL] = true
		}
		retained := index[:0:0]
		for _, b := range index {
			if b.Status == bogrep.StatusRemoved {
				continue
			}
			retained = append(retained, b)
		}
		for _, d := range report.Discovered {
			if byURL[d.URL] {
				continue
			}
			byURL[d.URL] = true
			retained = append(retained, d)
		}
		return s.Store.Save(ctx, retained)
	})
	return report, err
}

// Sync runs Import followed by Fetch, the `sync` subcommand's control
// flow.
func (s *Service) Sync(ctx context.Context, settings bogrep.Settings, opts FetchOptions, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
	if _, err := s.Import(ctx, settings, nil, false); err != nil {
		return nil, err
	}
	return s.Fetch(ctx, opts, progress)
}

// Add creates an internal-source TargetBookmark for each url not
// already tracked, with ActionFetchAndAdd so the next fetch pass picks
// it up.
func (s *Service) Add(ctx context.Context, urls []string) error {
	return s.withLock(func() error {
		index, err := s.Store.Load(ctx)
		if err != nil {
			return err
		}

		byURL := make(map[string]*bogrep.TargetBookmark, len(index))
		for _, b := range index {
			byURL[b.URL] = b
		}

		now := time.Now()
		for _, u := range urls {
			if existing, ok := byURL[u]; ok {
				if !existing.HasSource(bogrep.SourceKindInternal) {
					existing.Sources = append(existing.Sources, bogrep.SourceDescriptor{Kind: bogrep.SourceKindInternal})
				}
				continue
			}
			nb := &bogrep.TargetBookmark{
				ID:           store.NewID(),
				URL:          u,
				Sources:      []bogrep.SourceDescriptor{{Kind: bogrep.SourceKindInternal}},
				LastImported: now,
				Status:       bogrep.StatusAdded,
				Action:       bogrep.ActionFetchAndAdd,
			}
			index = append(index, nb)
		}
		return s.Store.Save(ctx, index)
	})
}

// Remove drops every TargetBookmark whose URL is in urls from the
// index and purges its cache files.
func (s *Service) Remove(ctx context.Context, urls []string) error {
	return s.withLock(func() error {
		index, err := s.Store.Load(ctx)
		if err != nil {
			return err
		}

		match := make(map[string]bool, len(urls))
		for _, u := range urls {
			match[u] = true
		}

		retained := index[:0:0]
		for _, b := range index {
			if match[b.URL] {
				_ = s.Cache.Remove(b.ID)
				continue
			}
			retained = append(retained, b)
		}
		return s.Store.Save(ctx, retained)
	})
}

// Clean purges cache artifacts whose id is no longer in the index. With
// all set, artifacts for ignored bookmarks are purged too, and the
// affected bookmarks' recorded cache modes are reset before the index is
// saved.
func (s *Service) Clean(ctx context.Context, all bool) (int, error) {
	var removed int
	err := s.withLock(func() error {
		index, err := s.Store.Load(ctx)
		if err != nil {
			return err
		}

		live := make(map[bogrep.ID]*bogrep.TargetBookmark, len(index))
		for _, b := range index {
			live[b.ID] = b
		}

		artifacts, err := s.Cache.List()
		if err != nil {
			return err
		}

		purged := make(map[bogrep.ID]bool)
		for _, a := range artifacts {
			if purged[a.ID] {
				continue
			}
			b, ok := live[a.ID]
			if ok && !(all && b.Status == bogrep.StatusIgnored) {
				continue
			}
			if err := s.Cache.Remove(a.ID); err != nil {
				return err
			}
			purged[a.ID] = true
			removed++
			if ok {
				b.CacheModes = nil
			}
		}

		if len(purged) == 0 {
			return nil
		}
		return s.Store.Save(ctx, index)
	})
	return removed, err
}

// filterNone returns one Decision per index entry whose own planned
// Action is not None, optionally restricted to urls.
func filterNone(index []*bogrep.TargetBookmark, urls []string) []bogrep.Decision {
	var match map[string]bool
	if len(urls) > 0 {
		match = make(map[string]bool, len(urls))
		for _, u := range urls {
			match[u] = true
		}
	}

	var decisions []bogrep.Decision
	for _, b := range index {
		if b.Action == bogrep.ActionNone {
			continue
		}
		if match != nil && !match[b.URL] {
			continue
		}
		decisions = append(decisions, bogrep.Decision{Bookmark: b, Action: b.Action})
	}
	return decisions
}

// mergedIndex folds decisions back into index. Entities planned for
// removal are kept with their pending action; the scheduler deletes
// their cache files on the next fetch pass and only then are they
// dropped from the saved index.
func mergedIndex(index []*bogrep.TargetBookmark, decisions []bogrep.Decision) []*bogrep.TargetBookmark {
	byID := make(map[bogrep.ID]*bogrep.TargetBookmark, len(index))
	for _, b := range index {
		byID[b.ID] = b
	}
	for _, d := range decisions {
		byID[d.Bookmark.ID] = d.Bookmark
	}

	out := make([]*bogrep.TargetBookmark, 0, len(byID))
	for _, b := range byID {
		out = append(out, b)
	}
	return out
}
