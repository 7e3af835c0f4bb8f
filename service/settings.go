package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/bogrep"
)

// jsonSettings mirrors bogrep.Settings for serialization, with durations
// expressed in milliseconds.
type jsonSettings struct {
	CacheMode                 bogrep.CacheMode `json:"cache_mode"`
	MaxConcurrentRequests     int              `json:"max_concurrent_requests"`
	RequestTimeoutMillis      int64            `json:"request_timeout"`
	RequestThrottlingMillis   int64            `json:"request_throttling"`
	MaxIdleConnectionsPerHost int              `json:"max_idle_connections_per_host"`
	IdleConnectionsTimeoutMs  int64            `json:"idle_connections_timeout"`
	MaxOpenFiles              int              `json:"max_open_files"`
	Sources                   []jsonSource     `json:"sources"`
	IgnoredURLs               []string         `json:"ignored_urls"`
	UnderlyingURLs            []string         `json:"underlying_urls"`
}

type jsonSource struct {
	Path    string            `json:"path"`
	Kind    bogrep.SourceKind `json:"kind"`
	Folders []string          `json:"folders,omitempty"`
}

func toJSONSettings(s bogrep.Settings) jsonSettings {
	sources := make([]jsonSource, 0, len(s.Sources))
	for _, src := range s.Sources {
		sources = append(sources, jsonSource{Path: src.Path, Kind: src.Kind, Folders: src.Folders})
	}
	return jsonSettings{
		CacheMode:                 s.CacheMode,
		MaxConcurrentRequests:     s.MaxConcurrentRequests,
		RequestTimeoutMillis:      s.RequestTimeout.Milliseconds(),
		RequestThrottlingMillis:   s.RequestThrottling.Milliseconds(),
		MaxIdleConnectionsPerHost: s.MaxIdleConnectionsPerHost,
		IdleConnectionsTimeoutMs:  s.IdleConnectionsTimeout.Milliseconds(),
		MaxOpenFiles:              s.MaxOpenFiles,
		Sources:                   sources,
		IgnoredURLs:               s.IgnoredURLs,
		UnderlyingURLs:            s.UnderlyingURLs,
	}
}

func fromJSONSettings(j jsonSettings) bogrep.Settings {
	sources := make([]bogrep.Source, 0, len(j.Sources))
	for _, src := range j.Sources {
		sources = append(sources, bogrep.Source{Path: src.Path, Kind: src.Kind, Folders: src.Folders})
	}
	return bogrep.Settings{
		CacheMode:                 j.CacheMode,
		MaxConcurrentRequests:     j.MaxConcurrentRequests,
		RequestTimeout:            time.Duration(j.RequestTimeoutMillis) * time.Millisecond,
		RequestThrottling:         time.Duration(j.RequestThrottlingMillis) * time.Millisecond,
		MaxIdleConnectionsPerHost: j.MaxIdleConnectionsPerHost,
		IdleConnectionsTimeout:    time.Duration(j.IdleConnectionsTimeoutMs) * time.Millisecond,
		MaxOpenFiles:              j.MaxOpenFiles,
		Sources:                   sources,
		IgnoredURLs:               j.IgnoredURLs,
		UnderlyingURLs:            j.UnderlyingURLs,
	}
}

// LoadSettings reads settings.json from path. A missing file returns
// bogrep.DefaultSettings(), matching `init`'s expectation that a fresh
// config root is usable before `config` has run.
func LoadSettings(path string) (bogrep.Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return bogrep.DefaultSettings(), nil
	}
	if err != nil {
		return bogrep.Settings{}, bogrep.WrapOp("service.LoadSettings", bogrep.Errorf(bogrep.EINVALID, "read settings: %v", err))
	}

	var j jsonSettings
	if err := json.Unmarshal(data, &j); err != nil {
		return bogrep.Settings{}, bogrep.WrapOp("service.LoadSettings", bogrep.Errorf(bogrep.EINVALID, "corrupt settings: %v", err))
	}
	return fromJSONSettings(j), nil
}

// SaveSettings writes settings.json atomically: temp file in the same
// directory, fsync, rename, following the same discipline as store.JSONStore.
func SaveSettings(path string, s bogrep.Settings) error {
	data, err := json.MarshalIndent(toJSONSettings(s), "", "  ")
	if err != nil {
		return bogrep.WrapOp("service.SaveSettings", bogrep.Errorf(bogrep.EINVALID, "marshal settings: %v", err))
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json.tmp")
	if err != nil {
		return bogrep.WrapOp("service.SaveSettings", bogrep.Errorf(bogrep.EINVALID, "create temp file: %v", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return bogrep.WrapOp("service.SaveSettings", bogrep.Errorf(bogrep.EINVALID, "write temp file: %v", err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return bogrep.WrapOp("service.SaveSettings", bogrep.Errorf(bogrep.EINVALID, "sync temp file: %v", err))
	}
	if err := tmp.Close(); err != nil {
		return bogrep.WrapOp("service.SaveSettings", bogrep.Errorf(bogrep.EINVALID, "close temp file: %v", err))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return bogrep.WrapOp("service.SaveSettings", bogrep.Errorf(bogrep.EINVALID, "rename temp file: %v", err))
	}
	return nil
}
