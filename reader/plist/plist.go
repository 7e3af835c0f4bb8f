// Package plist reads Safari's Bookmarks.plist export. It handles the
// XML property-list representation; binary plists must be converted to
// XML (plutil -convert xml1) before this reader can parse them.
package plist

import (
	"path/filepath"
	"strings"

	"context"

	"github.com/beevik/etree"
	"github.com/fwojciec/bogrep"
)

var _ bogrep.Reader = (*Reader)(nil)

// Reader parses Safari's WebBookmarkType dict/array plist tree.
type Reader struct{}

// New creates a Reader.
func New() *Reader {
	return &Reader{}
}

// CanRead reports whether path looks like a plist bookmark export.
func (r *Reader) CanRead(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".plist")
}

// Read parses the plist at src.Path, applying src.Folders the same way
// the JSON readers do: a bookmark is emitted once traversal has entered
// a folder ("WebBookmarkTypeList") whose Title matches the filter.
func (r *Reader) Read(ctx context.Context, src bogrep.Source) ([]bogrep.SourceBookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(src.Path); err != nil {
		return nil, bogrep.WrapOp("plist.Read", bogrep.Errorf(bogrep.ESOURCE, "read plist: %v", err))
	}

	root := doc.SelectElement("plist")
	if root == nil {
		return nil, bogrep.Errorf(bogrep.ESOURCE, "not a plist document: %s", src.Path)
	}
	top := firstChildElement(root)
	if top == nil {
		return nil, bogrep.Errorf(bogrep.ESOURCE, "empty plist document: %s", src.Path)
	}

	t := &traverser{
		desc:    bogrep.SourceDescriptor{Kind: bogrep.SourceKindSafari, Path: src.Path},
		folders: src.Folders,
	}
	t.walk(top, nil, len(src.Folders) == 0)
	return t.out, nil
}

type traverser struct {
	desc    bogrep.SourceDescriptor
	folders []string
	out     []bogrep.SourceBookmark
}

func (t *traverser) walk(dict *etree.Element, path []string, collecting bool) {
	kv := dictFields(dict)

	if elementText(kv["WebBookmarkType"]) == "WebBookmarkTypeLeaf" {
		if collecting || len(t.folders) == 0 {
			t.selectBookmark(kv, path)
		}
		return
	}

	name := elementText(kv["Title"])
	nextPath := path
	nextCollecting := collecting
	if name != "" {
		nextPath = append(append([]string{}, path...), name)
		if !collecting && len(t.folders) > 0 && containsString(t.folders, name) {
			nextCollecting = true
		}
	}

	children := kv["Children"]
	if children == nil {
		return
	}
	for _, child := range children.ChildElements() {
		t.walk(child, nextPath, nextCollecting)
	}
}

func (t *traverser) selectBookmark(kv map[string]*etree.Element, path []string) {
	url := elementText(kv["URLString"])
	if url == "" || !strings.Contains(url, "http") {
		return
	}
	title := ""
	if uriDict := kv["URIDictionary"]; uriDict != nil {
		title = elementText(dictFields(uriDict)["title"])
	}
	folder := make([]string, len(path))
	copy(folder, path)
	t.out = append(t.out, bogrep.SourceBookmark{
		URL:    url,
		Title:  title,
		Source: t.desc,
		Folder: folder,
	})
}

// dictFields reads a plist <dict> element's alternating <key> value
// pairs into a map from key name to the value element.
func dictFields(dict *etree.Element) map[string]*etree.Element {
	m := make(map[string]*etree.Element)
	children := dict.ChildElements()
	for i := 0; i+1 < len(children); i += 2 {
		if children[i].Tag != "key" {
			continue
		}
		m[children[i].Text()] = children[i+1]
	}
	return m
}

func firstChildElement(el *etree.Element) *etree.Element {
	for _, c := range el.ChildElements() {
		return c
	}
	return nil
}

func elementText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.Text()
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
