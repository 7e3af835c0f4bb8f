// Package fetch provides the bounded-concurrency fetch scheduler:
// bogrep.Scheduler's implementation. It dispatches one goroutine per
// planned fetch, gated by a concurrency limit and per-host throttling.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/bogrep"
	"golang.org/x/sync/errgroup"
)

var _ bogrep.Scheduler = (*Scheduler)(nil)

// Config configures a Scheduler from bogrep.Settings.
type Config struct {
	MaxConcurrentRequests int
	RequestTimeout        time.Duration
	MaxOpenFiles          int
	// UnderlyingURLs restricts which URLs the rewriter is consulted for.
	// Empty means every whitelisted host is eligible.
	UnderlyingURLs []string
}

// fdReserve is the number of descriptors kept back from the fetch pool
// for the index, cache writes, and stdio.
const fdReserve = 32

// Scheduler implements bogrep.Scheduler, wiring a Client, Throttler,
// Renderer, Cache and UnderlyingRewriter into one bounded fetch pass.
type Scheduler struct {
	Client    bogrep.Client
	Throttler bogrep.Throttler
	Renderer  bogrep.Renderer
	Cache     bogrep.Cache
	Rewriter  bogrep.UnderlyingRewriter
	CacheMode bogrep.CacheMode

	maxConcurrent  int
	requestTimeout time.Duration
	maxOpenFiles   int
	underlying     map[string]bool
}

// New creates a Scheduler. It raises the process FD limit toward
// cfg.MaxOpenFiles on a best-effort basis; a failure to raise it is not
// fatal, since the concurrency limit already bounds simultaneous
// connections well below most default limits.
func New(client bogrep.Client, throttler bogrep.Throttler, renderer bogrep.Renderer, cache bogrep.Cache, rewriter bogrep.UnderlyingRewriter, mode bogrep.CacheMode, cfg Config) *Scheduler {
	concurrency := cfg.MaxConcurrentRequests
	if concurrency <= 0 {
		concurrency = 1
	}
	if cfg.MaxOpenFiles > 0 {
		_, _ = raiseFDLimit(uint64(cfg.MaxOpenFiles))
		if budget := cfg.MaxOpenFiles - fdReserve; budget > 0 && concurrency > budget {
			concurrency = budget
		}
	}
	var underlying map[string]bool
	if len(cfg.UnderlyingURLs) > 0 {
		underlying = make(map[string]bool, len(cfg.UnderlyingURLs))
		for _, u := range cfg.UnderlyingURLs {
			underlying[u] = true
		}
	}
	return &Scheduler{
		Client:         client,
		Throttler:      throttler,
		Renderer:       renderer,
		Cache:          cache,
		Rewriter:       rewriter,
		CacheMode:      mode,
		maxConcurrent:  concurrency,
		requestTimeout: cfg.RequestTimeout,
		maxOpenFiles:   cfg.MaxOpenFiles,
		underlying:     underlying,
	}
}

// discovery is an underlying-URL rewrite surfaced during a fetch,
// queued for a single bounded second pass once the main run completes.
type discovery struct {
	sourceID bogrep.ID
	url      string
	kind     bogrep.UnderlyingType
}

// Run dispatches one goroutine per decision needing a fetch, applies
// removals inline, and collects a Report. It is not tied to ctx for
// the errgroup itself: cancelling ctx stops new work from being
// scheduled, but work already dispatched is allowed to finish within
// its own per-request timeout, giving a short, bounded grace window
// instead of killing in-flight requests outright.
func (s *Scheduler) Run(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
	report := &bogrep.Report{Total: len(decisions)}
	var mu sync.Mutex
	var discoveries []discovery

	var stopping atomic.Bool
	stopCh := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stopping.Store(true)
		case <-stopCh:
		}
	}()
	defer close(stopCh)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(s.maxConcurrent)

	var completed atomic.Int64

	for _, d := range decisions {
		d := d

		if stopping.Load() {
			mu.Lock()
			report.Cancelled = true
			mu.Unlock()
			break
		}

		switch d.Action {
		case bogrep.ActionNone:
			continue
		case bogrep.ActionRemove, bogrep.ActionDeleteCache:
			s.applyRemoval(d.Bookmark, d.Action)
			mu.Lock()
			report.Processed++
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
			defer cancel()

			outcome := s.fetchOne(reqCtx, d)

			mu.Lock()
			report.Processed++
			switch {
			case outcome.err != nil && outcome.binary:
				report.BinaryResponse++
			case outcome.err != nil:
				report.FailedResponse++
			case outcome.empty:
				report.EmptyResponse++
			default:
				report.Cached++
			}
			if outcome.diff != nil {
				report.Diffs = append(report.Diffs, *outcome.diff)
			}
			if outcome.discovered != nil {
				discoveries = append(discoveries, *outcome.discovered)
			}
			n := completed.Add(1)
			mu.Unlock()

			if progress != nil {
				progress(bogrep.ProgressEvent{
					URL:       d.Bookmark.URL,
					Completed: int(n),
					Total:     report.Total,
					Err:       outcome.err,
				})
			}
			return nil
		})
	}

	_ = g.Wait()

	if stopping.Load() {
		report.Cancelled = true
	}

	s.runDiscoveryPass(ctx, discoveries, report, progress)

	return report, nil
}

// fetchOutcome is the internal result of fetching and caching one
// bookmark, reduced by Run into the shared Report under its mutex.
type fetchOutcome struct {
	err        error
	binary     bool
	empty      bool
	diff       *bogrep.Diff
	discovered *discovery
}

func (s *Scheduler) fetchOne(ctx context.Context, d bogrep.Decision) fetchOutcome {
	b := d.Bookmark

	host, err := hostOf(b.URL)
	if err != nil {
		b.Status = bogrep.StatusFetchedFailed
		return fetchOutcome{err: err}
	}
	if err := s.Throttler.Wait(ctx, host); err != nil {
		b.Status = bogrep.StatusFetchedFailed
		return fetchOutcome{err: err}
	}

	resp, err := s.Client.Fetch(ctx, b.URL)
	if err != nil {
		b.Status = bogrep.StatusFetchedFailed
		binary := strings.Contains(bogrep.ErrorMessage(err), "content type")
		return fetchOutcome{err: err, binary: binary}
	}

	var oldContent string
	var wantDiff bool
	if d.Action == bogrep.ActionFetchAndDiff {
		wantDiff = true
		if old, ok, _ := s.Cache.Get(b.ID, s.CacheMode); ok {
			oldContent = string(old)
		}
	}

	extracted, err := s.Renderer.Render(s.CacheMode, resp)
	if err != nil {
		b.Status = bogrep.StatusFetchedFailed
		return fetchOutcome{err: err}
	}
	if len(extracted.Content) == 0 {
		b.Status = bogrep.StatusFetchedFailed
		return fetchOutcome{empty: true}
	}

	if err := s.Cache.Put(b.ID, s.CacheMode, extracted.Content); err != nil {
		b.Status = bogrep.StatusFetchedFailed
		return fetchOutcome{err: err}
	}

	now := time.Now()
	b.LastCached = &now
	b.Status = bogrep.StatusFetchedSuccess
	b.ContentHash = contentHash(extracted.Content)
	if extracted.Title != "" {
		b.Title = extracted.Title
	}
	if !b.HasCacheMode(s.CacheMode) {
		b.CacheModes = append(b.CacheModes, s.CacheMode)
	}

	out := fetchOutcome{}
	if wantDiff {
		newContent := string(extracted.Content)
		if newContent != oldContent {
			out.diff = &bogrep.Diff{URL: b.URL, Before: oldContent, After: newContent}
		}
	}

	if s.Rewriter != nil && s.underlyingEligible(b.URL) && bogrep.ClassifyUnderlying(b.URL) != bogrep.UnderlyingNone {
		if underlyingURL, kind, ok := s.Rewriter.Rewrite(b.URL, resp.Body); ok {
			b.UnderlyingURL = underlyingURL
			b.UnderlyingType = kind
			out.discovered = &discovery{sourceID: b.ID, url: underlyingURL, kind: kind}
		}
	}

	return out
}

// underlyingEligible applies the underlying_urls setting: a non-empty
// list restricts rewriting to exactly those URLs.
func (s *Scheduler) underlyingEligible(url string) bool {
	if s.underlying == nil {
		return true
	}
	return s.underlying[url]
}

func (s *Scheduler) applyRemoval(b *bogrep.TargetBookmark, action bogrep.Action) {
	_ = s.Cache.Remove(b.ID)
	if action == bogrep.ActionRemove {
		b.Status = bogrep.StatusRemoved
	}
	b.Action = bogrep.ActionNone
	b.CacheModes = nil
	b.LastCached = nil
}

// runDiscoveryPass fetches underlying URLs discovered during the main
// run exactly once, never recursing further: an underlying page is
// never itself classified as whitelisted content worth rewriting
// again, so this pass always terminates. Once ctx is cancelled no
// further discoveries are dispatched.
func (s *Scheduler) runDiscoveryPass(ctx context.Context, discoveries []discovery, report *bogrep.Report, progress bogrep.ProgressFunc) {
	if len(discoveries) == 0 {
		return
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(s.maxConcurrent)
	var mu sync.Mutex

	for _, disc := range discoveries {
		disc := disc
		if ctx.Err() != nil {
			mu.Lock()
			report.Cancelled = true
			mu.Unlock()
			break
		}
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
			defer cancel()

			host, err := hostOf(disc.url)
			if err != nil {
				return nil
			}
			if err := s.Throttler.Wait(reqCtx, host); err != nil {
				return nil
			}
			resp, err := s.Client.Fetch(reqCtx, disc.url)
			if err != nil {
				return nil
			}
			extracted, err := s.Renderer.Render(s.CacheMode, resp)
			if err != nil || len(extracted.Content) == 0 {
				return nil
			}

			// The id is derived from the underlying URL so a rewrite of
			// the same source page lands on the same entity every run.
			id := bogrep.ID(contentHash([]byte(disc.url)))
			if err := s.Cache.Put(id, s.CacheMode, extracted.Content); err != nil {
				return nil
			}

			now := time.Now()
			discovered := &bogrep.TargetBookmark{
				ID:             id,
				URL:            disc.url,
				Title:          extracted.Title,
				Sources:        []bogrep.SourceDescriptor{{Kind: bogrep.SourceKindUnderlying, UnderlyingOf: disc.sourceID}},
				CacheModes:     []bogrep.CacheMode{s.CacheMode},
				LastImported:   now,
				LastCached:     &now,
				Status:         bogrep.StatusFetchedSuccess,
				Action:         bogrep.ActionNone,
				UnderlyingType: disc.kind,
				ContentHash:    contentHash(extracted.Content),
			}

			mu.Lock()
			report.Processed++
			report.Cached++
			report.Discovered = append(report.Discovered, discovered)
			mu.Unlock()
			if progress != nil {
				progress(bogrep.ProgressEvent{URL: disc.url, Total: report.Total})
			}
			return nil
		})
	}

	_ = g.Wait()
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", bogrep.WrapOp("fetch.hostOf", bogrep.Errorf(bogrep.EINVALID, "parse url %q: %v", rawURL, err))
	}
	return u.Host, nil
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%x", xxhash.Sum64(content))
}
