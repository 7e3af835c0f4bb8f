// Package cache provides the content-addressed-by-bookmark-id on-disk
// cache of rendered artifacts, with atomic writes and a well-defined
// lookup/delete contract.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Cache = (*FSCache)(nil)

// FSCache implements bogrep.Cache on the local filesystem. Each (id,
// mode) pair maps to a file named "{id}.{ext}" in root. Writes go
// through a temp file and rename, so readers always observe either the
// old file or the new one.
type FSCache struct {
	root string
}

// NewFSCache creates an FSCache rooted at dir. The directory is created
// if it does not exist.
func NewFSCache(dir string) (*FSCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, bogrep.WrapOp("cache.NewFSCache", bogrep.Errorf(bogrep.ECACHE, "create cache dir: %v", err))
	}
	return &FSCache{root: dir}, nil
}

func (c *FSCache) path(id bogrep.ID, mode bogrep.CacheMode) string {
	return filepath.Join(c.root, fmt.Sprintf("%s.%s", id, mode.Extension()))
}

// Get returns the cached bytes for (id, mode), or ok=false if absent.
func (c *FSCache) Get(id bogrep.ID, mode bogrep.CacheMode) ([]byte, bool, error) {
	data, err := os.ReadFile(c.path(id, mode))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, bogrep.WrapOp("cache.Get", bogrep.Errorf(bogrep.ECACHE, "read cache file: %v", err))
	}
	return data, true, nil
}

// Put writes data for (id, mode) atomically: temp file in the same
// directory, then rename over the destination.
func (c *FSCache) Put(id bogrep.ID, mode bogrep.CacheMode, data []byte) error {
	tmp, err := os.CreateTemp(c.root, fmt.Sprintf(".%s-*.tmp", id))
	if err != nil {
		return bogrep.WrapOp("cache.Put", bogrep.Errorf(bogrep.ECACHE, "create temp file: %v", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return bogrep.WrapOp("cache.Put", bogrep.Errorf(bogrep.ECACHE, "write temp file: %v", err))
	}
	if err := tmp.Close(); err != nil {
		return bogrep.WrapOp("cache.Put", bogrep.Errorf(bogrep.ECACHE, "close temp file: %v", err))
	}
	if err := os.Rename(tmpPath, c.path(id, mode)); err != nil {
		return bogrep.WrapOp("cache.Put", bogrep.Errorf(bogrep.ECACHE, "rename temp file: %v", err))
	}
	return nil
}

// Remove deletes all mode files for id. Missing files are not errors.
func (c *FSCache) Remove(id bogrep.ID) error {
	for _, mode := range []bogrep.CacheMode{bogrep.CacheModeText, bogrep.CacheModeMarkdown, bogrep.CacheModeHTML} {
		if err := os.Remove(c.path(id, mode)); err != nil && !os.IsNotExist(err) {
			return bogrep.WrapOp("cache.Remove", bogrep.Errorf(bogrep.ECACHE, "remove cache file: %v", err))
		}
	}
	return nil
}

// Exists reports whether a cache file for (id, mode) exists.
func (c *FSCache) Exists(id bogrep.ID, mode bogrep.CacheMode) bool {
	_, err := os.Stat(c.path(id, mode))
	return err == nil
}

// List enumerates the artifacts on disk. In-progress temp files and
// files with unrecognized extensions are skipped.
func (c *FSCache) List() ([]bogrep.Artifact, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, bogrep.WrapOp("cache.List", bogrep.Errorf(bogrep.ECACHE, "read cache dir: %v", err))
	}

	var out []bogrep.Artifact
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := filepath.Ext(name)
		mode, ok := modeForExtension(ext)
		if !ok {
			continue
		}
		out = append(out, bogrep.Artifact{
			ID:   bogrep.ID(strings.TrimSuffix(name, ext)),
			Mode: mode,
		})
	}
	return out, nil
}

func modeForExtension(ext string) (bogrep.CacheMode, bool) {
	switch ext {
	case ".txt":
		return bogrep.CacheModeText, true
	case ".md":
		return bogrep.CacheModeMarkdown, true
	case ".html":
		return bogrep.CacheModeHTML, true
	}
	return "", false
}

// IsEmpty reports whether the cache directory contains no artifacts.
func (c *FSCache) IsEmpty() (bool, error) {
	artifacts, err := c.List()
	if err != nil {
		return false, bogrep.WrapOp("cache.IsEmpty", err)
	}
	return len(artifacts) == 0, nil
}
