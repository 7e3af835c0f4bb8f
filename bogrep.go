// Package bogrep provides a local, CLI-based bookmark archiving and search
// tool. It imports bookmarks exported by web browsers, fetches the current
// content of each bookmarked page, renders it to a cache, and makes the
// cache searchable with a grep-like matcher.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency or concern (e.g.
// store/, cache/, httpclient/, fetch/).
package bogrep

import (
	"context"
	"time"
)

// Status is the lifecycle state of a TargetBookmark.
type Status string

const (
	StatusAdded          Status = "added"
	StatusFetchedSuccess Status = "fetched_success"
	StatusFetchedFailed  Status = "fetched_failed"
	StatusIgnored        Status = "ignored"
	StatusRemoved        Status = "removed"
)

// Action is the operation planned for a TargetBookmark on the next
// scheduler pass.
type Action string

const (
	ActionNone            Action = "none"
	ActionFetchAndAdd     Action = "fetch_and_add"
	ActionFetchAndReplace Action = "fetch_and_replace"
	ActionFetchAndDiff    Action = "fetch_and_diff"
	ActionRemove          Action = "remove"
	ActionDeleteCache     Action = "delete_cache"
)

// CacheMode is the rendered form stored on disk for a bookmark.
type CacheMode string

const (
	CacheModeText     CacheMode = "text"
	CacheModeMarkdown CacheMode = "markdown"
	CacheModeHTML     CacheMode = "html"
)

// Extension returns the cache file extension for the mode.
func (m CacheMode) Extension() string {
	switch m {
	case CacheModeMarkdown:
		return "md"
	case CacheModeHTML:
		return "html"
	default:
		return "txt"
	}
}

// UnderlyingType identifies which closed host whitelist produced a
// TargetBookmark's underlying URL, if any.
type UnderlyingType string

const (
	UnderlyingNone       UnderlyingType = "none"
	UnderlyingHackerNews UnderlyingType = "hacker_news"
	UnderlyingReddit     UnderlyingType = "reddit"
)

// SourceKind identifies the format a source reader parses.
type SourceKind string

const (
	SourceKindInternal   SourceKind = "internal"
	SourceKindChrome     SourceKind = "chrome"
	SourceKindChromium   SourceKind = "chromium"
	SourceKindEdge       SourceKind = "edge"
	SourceKindFirefox    SourceKind = "firefox"
	SourceKindSafari     SourceKind = "safari"
	SourceKindSimple     SourceKind = "simple"
	SourceKindUnderlying SourceKind = "underlying"
)

// SourceDescriptor names where a bookmark observation came from.
type SourceDescriptor struct {
	Kind SourceKind
	// Path is the source's bookmark export path, empty for Internal and
	// Underlying descriptors.
	Path string
	// UnderlyingOf is the id of the entity this descriptor was rewritten
	// from, set only when Kind is SourceKindUnderlying.
	UnderlyingOf ID
}

// SourceBookmark is an observation of a bookmark from a browser export. It
// has no identity of its own; the target store merges observations by URL.
type SourceBookmark struct {
	URL    string
	Title  string
	Source SourceDescriptor
	Folder []string
}

// ID is a stable opaque identifier allocated at first observation of a
// TargetBookmark. It is independent of URL so URL normalization changes
// never invalidate cache filenames.
type ID string

// TargetBookmark is the persistent index entry bogrep tracks.
type TargetBookmark struct {
	ID             ID
	URL            string
	Title          string
	Sources        []SourceDescriptor
	CacheModes     []CacheMode
	LastImported   time.Time
	LastCached     *time.Time
	Status         Status
	Action         Action
	UnderlyingURL  string
	UnderlyingType UnderlyingType
	ContentHash    string
}

// HasSource reports whether k is one of the bookmark's source kinds.
func (b *TargetBookmark) HasSource(k SourceKind) bool {
	for _, s := range b.Sources {
		if s.Kind == k {
			return true
		}
	}
	return false
}

// HasCacheMode reports whether m is currently persisted for this bookmark.
func (b *TargetBookmark) HasCacheMode(m CacheMode) bool {
	for _, cm := range b.CacheModes {
		if cm == m {
			return true
		}
	}
	return false
}

// Source describes one configured browser bookmark source.
type Source struct {
	Path    string
	Kind    SourceKind
	Folders []string
}

// Settings holds the recognized configuration options, persisted in
// settings.json.
type Settings struct {
	CacheMode                 CacheMode
	MaxConcurrentRequests     int
	RequestTimeout            time.Duration
	RequestThrottling         time.Duration
	MaxIdleConnectionsPerHost int
	IdleConnectionsTimeout    time.Duration
	MaxOpenFiles              int
	Sources                   []Source
	IgnoredURLs               []string
	UnderlyingURLs            []string
}

// DefaultSettings returns the built-in defaults used by `init`.
func DefaultSettings() Settings {
	return Settings{
		CacheMode:                 CacheModeText,
		MaxConcurrentRequests:     100,
		RequestTimeout:            30 * time.Second,
		RequestThrottling:         250 * time.Millisecond,
		MaxIdleConnectionsPerHost: 10,
		IdleConnectionsTimeout:    90 * time.Second,
		MaxOpenFiles:              256,
	}
}

// Decision pairs a TargetBookmark with the action the planner assigned it
// for the upcoming scheduler pass.
type Decision struct {
	Bookmark *TargetBookmark
	Action   Action
}

// Response is the result of a Client fetch.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// ExtractResult is the output of a Renderer pass: a title and content in
// the format the caller requested.
type ExtractResult struct {
	Title   string
	Content []byte
}

// Report aggregates scheduler outcomes for a single run, suitable for a
// progress UI and for the facade's final printed summary.
type Report struct {
	Total          int
	Processed      int
	Cached         int
	FailedResponse int
	BinaryResponse int
	EmptyResponse  int
	DryRun         int
	Cancelled      bool
	Diffs          []Diff
	// Discovered holds fully-formed underlying bookmarks the scheduler
	// fetched and cached during its discovery pass; the facade merges them
	// into the index before the end-of-run save.
	Discovered []*TargetBookmark
}

// Diff is the before/after content pair for a bookmark fetched under
// ActionFetchAndDiff.
type Diff struct {
	URL    string
	Before string
	After  string
}

// ProgressEvent reports one bookmark's fetch outcome as the scheduler runs.
type ProgressEvent struct {
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc receives ProgressEvent callbacks during a fetch run.
type ProgressFunc func(ProgressEvent)

// Reader parses a browser's bookmark export into a normalized stream of
// SourceBookmark records.
type Reader interface {
	// CanRead reports whether the reader recognizes the file at path.
	CanRead(path string) bool
	// Read produces a finite, non-restartable stream of SourceBookmark
	// records, with the source's folder filter already applied.
	Read(ctx context.Context, src Source) ([]SourceBookmark, error)
}

// Store is the persistent index of tracked bookmarks.
type Store interface {
	// Load returns the current index. A missing index file is treated as
	// empty, not an error.
	Load(ctx context.Context) ([]*TargetBookmark, error)
	// Save writes the index atomically.
	Save(ctx context.Context, index []*TargetBookmark) error
}

// Planner diffs observed source bookmarks against the target store and
// assigns exactly one Action to each entity.
type Planner interface {
	Plan(index []*TargetBookmark, observed []SourceBookmark, ignore IgnoreList, now time.Time) []Decision
}

// Artifact identifies one cached file by bookmark id and mode.
type Artifact struct {
	ID   ID
	Mode CacheMode
}

// Cache is the content-addressed-by-id on-disk store of rendered
// artifacts.
type Cache interface {
	Get(id ID, mode CacheMode) ([]byte, bool, error)
	Put(id ID, mode CacheMode, data []byte) error
	Remove(id ID) error
	Exists(id ID, mode CacheMode) bool
	IsEmpty() (bool, error)
	// List enumerates every artifact currently on disk, used by clean to
	// garbage-collect files whose id is no longer in the index.
	List() ([]Artifact, error)
}

// Client is a thin HTTP abstraction configured from Settings.
type Client interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Throttler gates outbound requests to at most one per host every
// configured interval.
type Throttler interface {
	Wait(ctx context.Context, host string) error
}

// Renderer converts a fetched response body to the bytes persisted for a
// given cache mode.
type Renderer interface {
	Render(mode CacheMode, resp *Response) (*ExtractResult, error)
}

// UnderlyingRewriter maps certain fetched pages to an additional
// "underlying" URL to also track, using a closed host whitelist.
type UnderlyingRewriter interface {
	Rewrite(sourceURL string, html []byte) (underlyingURL string, kind UnderlyingType, ok bool)
}

// Scheduler orchestrates a fetch run: bounded concurrency, per-host
// throttling, FD provisioning, progress reporting, and graceful abort.
type Scheduler interface {
	Run(ctx context.Context, decisions []Decision, progress ProgressFunc) (*Report, error)
}

// Lock guarantees a single bogrep process per configuration directory.
type Lock interface {
	Acquire() error
	Release() error
}
