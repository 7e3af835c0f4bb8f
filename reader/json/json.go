// Package json reads the JSON bookmark-tree export format shared by
// Chrome, Chromium, Edge, and (in a different field layout) Firefox,
// including Firefox/Chrome's LZ4-compressed ".jsonlz4" backups.
package json

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/reader/lz4"
)

var _ bogrep.Reader = (*Reader)(nil)

// Reader parses Chrome/Chromium/Edge/Firefox bookmark JSON trees. The
// field layout used during traversal is selected from the Source's Kind,
// since all four browsers recurse through the same nested-object/array
// shape with different key names.
type Reader struct{}

// New creates a Reader.
func New() *Reader {
	return &Reader{}
}

// CanRead reports whether path looks like a JSON or jsonlz4 bookmark
// export.
func (r *Reader) CanRead(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".json" || ext == ".jsonlz4"
}

// Read parses the bookmark tree at src.Path, applying src.Folders as a
// folder-name filter: once traversal enters a matching folder, every
// bookmark nested under it (including in subfolders) is emitted.
func (r *Reader) Read(ctx context.Context, src bogrep.Source) ([]bogrep.SourceBookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bogrep.Errorf(bogrep.ESOURCE, "source not found: %s", src.Path)
		}
		return nil, bogrep.WrapOp("json.Read", bogrep.Errorf(bogrep.ESOURCE, "read source: %v", err))
	}

	if strings.HasSuffix(strings.ToLower(src.Path), ".jsonlz4") {
		data, err = lz4.Decompress(data)
		if err != nil {
			return nil, bogrep.WrapOp("json.Read", err)
		}
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, bogrep.WrapOp("json.Read", bogrep.Errorf(bogrep.ESOURCE, "bad format: %v", err))
	}

	t := newTraverser(src)
	t.walk(root, nil, len(src.Folders) == 0)
	return t.out, nil
}

// schema captures the field names a given browser's export uses for its
// url/folder nodes. Chrome, Chromium, and Edge share one schema;
// Firefox uses another.
type schema struct {
	typeKey    string
	urlType    string
	folderType string
	titleKey   string
	urlKey     string
}

func schemaFor(kind bogrep.SourceKind) schema {
	if kind == bogrep.SourceKindFirefox {
		return schema{
			typeKey:    "type",
			urlType:    "text/x-moz-place",
			folderType: "text/x-moz-place-container",
			titleKey:   "title",
			urlKey:     "uri",
		}
	}
	return schema{
		typeKey:    "type",
		urlType:    "url",
		folderType: "folder",
		titleKey:   "name",
		urlKey:     "url",
	}
}

type traverser struct {
	desc    bogrep.SourceDescriptor
	folders []string
	schema  schema
	out     []bogrep.SourceBookmark
}

func newTraverser(src bogrep.Source) *traverser {
	return &traverser{
		desc:    bogrep.SourceDescriptor{Kind: src.Kind, Path: src.Path},
		folders: src.Folders,
		schema:  schemaFor(src.Kind),
	}
}

// walk recurses through the parsed JSON tree, tracking the folder path
// and whether the current node is nested under a folder that matched
// the configured filter (collecting).
func (t *traverser) walk(v any, path []string, collecting bool) {
	switch val := v.(type) {
	case map[string]any:
		t.visitObject(val, path, collecting)
	case []any:
		for _, item := range val {
			t.walk(item, path, collecting)
		}
	}
}

func (t *traverser) visitObject(obj map[string]any, path []string, collecting bool) {
	if collecting || len(t.folders) == 0 {
		t.selectBookmark(obj, path)
	}

	nextPath := path
	nextCollecting := collecting
	if name, ok := obj[t.schema.titleKey].(string); ok {
		if typ, ok := obj[t.schema.typeKey].(string); ok && typ == t.schema.folderType {
			nextPath = append(append([]string{}, path...), name)
			if !collecting && len(t.folders) > 0 && containsString(t.folders, name) {
				nextCollecting = true
			}
		}
	}

	for _, val := range obj {
		t.walk(val, nextPath, nextCollecting)
	}
}

func (t *traverser) selectBookmark(obj map[string]any, path []string) {
	typ, ok := obj[t.schema.typeKey].(string)
	if !ok || typ != t.schema.urlType {
		return
	}
	url, ok := obj[t.schema.urlKey].(string)
	if !ok || !strings.Contains(url, "http") {
		return
	}
	title, _ := obj[t.schema.titleKey].(string)

	folder := make([]string, len(path))
	copy(folder, path)
	t.out = append(t.out, bogrep.SourceBookmark{
		URL:    url,
		Title:  title,
		Source: t.desc,
		Folder: folder,
	})
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
