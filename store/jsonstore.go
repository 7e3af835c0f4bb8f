// Package store provides the persistent index of tracked bookmarks,
// serialized to bookmarks.json with atomic temp-file-plus-rename writes.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fwojciec/bogrep"
	"github.com/google/uuid"
)

var _ bogrep.Store = (*JSONStore)(nil)

// JSONStore implements bogrep.Store backed by a single bookmarks.json
// file, written with temp-file-plus-rename so a crash mid-save never
// corrupts the index.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSONStore backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// NewID allocates a fresh, stable bookmark id. Ids are independent of
// URL so URL normalization never invalidates cache filenames.
func NewID() bogrep.ID {
	return bogrep.ID(uuid.NewString())
}

// jsonSource mirrors bogrep.SourceDescriptor for serialization.
type jsonSource struct {
	Kind         bogrep.SourceKind `json:"kind"`
	Path         string            `json:"path,omitempty"`
	UnderlyingOf bogrep.ID         `json:"underlying_of,omitempty"`
}

// jsonBookmark mirrors bogrep.TargetBookmark for serialization.
type jsonBookmark struct {
	ID             bogrep.ID             `json:"id"`
	URL            string                `json:"url"`
	Title          string                `json:"title,omitempty"`
	Sources        []jsonSource          `json:"sources"`
	CacheModes     []bogrep.CacheMode    `json:"cache_modes"`
	LastImported   time.Time             `json:"last_imported"`
	LastCached     *time.Time            `json:"last_cached"`
	Status         bogrep.Status         `json:"status"`
	Action         bogrep.Action         `json:"action"`
	UnderlyingURL  string                `json:"underlying_url,omitempty"`
	UnderlyingType bogrep.UnderlyingType `json:"underlying_type,omitempty"`
	ContentHash    string                `json:"content_hash,omitempty"`
}

type jsonIndex struct {
	Bookmarks []jsonBookmark `json:"bookmarks"`
}

func toJSON(b *bogrep.TargetBookmark) jsonBookmark {
	sources := make([]jsonSource, 0, len(b.Sources))
	for _, s := range b.Sources {
		sources = append(sources, jsonSource{Kind: s.Kind, Path: s.Path, UnderlyingOf: s.UnderlyingOf})
	}
	return jsonBookmark{
		ID:             b.ID,
		URL:            b.URL,
		Title:          b.Title,
		Sources:        sources,
		CacheModes:     b.CacheModes,
		LastImported:   b.LastImported,
		LastCached:     b.LastCached,
		Status:         b.Status,
		Action:         b.Action,
		UnderlyingURL:  b.UnderlyingURL,
		UnderlyingType: b.UnderlyingType,
		ContentHash:    b.ContentHash,
	}
}

func fromJSON(j jsonBookmark) *bogrep.TargetBookmark {
	sources := make([]bogrep.SourceDescriptor, 0, len(j.Sources))
	for _, s := range j.Sources {
		sources = append(sources, bogrep.SourceDescriptor{Kind: s.Kind, Path: s.Path, UnderlyingOf: s.UnderlyingOf})
	}
	return &bogrep.TargetBookmark{
		ID:             j.ID,
		URL:            j.URL,
		Title:          j.Title,
		Sources:        sources,
		CacheModes:     j.CacheModes,
		LastImported:   j.LastImported,
		LastCached:     j.LastCached,
		Status:         j.Status,
		Action:         j.Action,
		UnderlyingURL:  j.UnderlyingURL,
		UnderlyingType: j.UnderlyingType,
		ContentHash:    j.ContentHash,
	}
}

// Load returns the current index. A missing file is treated as an empty
// index, not an error, so a fresh config root works without an init
// step.
func (s *JSONStore) Load(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, bogrep.WrapOp("store.Load", bogrep.Errorf(bogrep.EINDEX, "read index: %v", err))
	}

	var idx jsonIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, bogrep.WrapOp("store.Load", bogrep.Errorf(bogrep.EINDEX, "corrupt index: %v", err))
	}

	out := make([]*bogrep.TargetBookmark, 0, len(idx.Bookmarks))
	for _, jb := range idx.Bookmarks {
		out = append(out, fromJSON(jb))
	}
	return out, nil
}

// Save writes the index atomically: marshal, write to a sibling temp
// file, fsync, then rename over the destination. Bookmarks are sorted by
// last_cached-then-url before serialization so repeated imports of
// unchanged sources produce bytewise identical output (the idempotent
// import invariant).
func (s *JSONStore) Save(ctx context.Context, index []*bogrep.TargetBookmark) error {
	sorted := make([]*bogrep.TargetBookmark, len(index))
	copy(sorted, index)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.LastCached == nil && b.LastCached != nil:
			return true
		case a.LastCached != nil && b.LastCached == nil:
			return false
		case a.LastCached != nil && b.LastCached != nil && !a.LastCached.Equal(*b.LastCached):
			return a.LastCached.Before(*b.LastCached)
		default:
			return a.URL < b.URL
		}
	})

	idx := jsonIndex{Bookmarks: make([]jsonBookmark, 0, len(sorted))}
	for _, b := range sorted {
		idx.Bookmarks = append(idx.Bookmarks, toJSON(b))
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return bogrep.WrapOp("store.Save", bogrep.Errorf(bogrep.EINDEX, "marshal index: %v", err))
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".bookmarks-*.json.tmp")
	if err != nil {
		return bogrep.WrapOp("store.Save", bogrep.Errorf(bogrep.EINDEX, "create temp file: %v", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return bogrep.WrapOp("store.Save", bogrep.Errorf(bogrep.EINDEX, "write temp file: %v", err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return bogrep.WrapOp("store.Save", bogrep.Errorf(bogrep.EINDEX, "sync temp file: %v", err))
	}
	if err := tmp.Close(); err != nil {
		return bogrep.WrapOp("store.Save", bogrep.Errorf(bogrep.EINDEX, "close temp file: %v", err))
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return bogrep.WrapOp("store.Save", bogrep.Errorf(bogrep.EINDEX, "rename temp file: %v", err))
	}

	return nil
}
