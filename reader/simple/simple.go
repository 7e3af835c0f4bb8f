// Package simple reads a newline-delimited list of URLs, one bookmark
// per line, with no folder structure.
package simple

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Reader = (*Reader)(nil)

// Reader parses a plain-text URL list.
type Reader struct{}

// New creates a Reader.
func New() *Reader {
	return &Reader{}
}

// CanRead reports whether path looks like a plain-text bookmark list.
func (r *Reader) CanRead(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

// Read emits one SourceBookmark per non-empty line.
func (r *Reader) Read(ctx context.Context, src bogrep.Source) ([]bogrep.SourceBookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bogrep.Errorf(bogrep.ESOURCE, "source not found: %s", src.Path)
		}
		return nil, bogrep.WrapOp("simple.Read", bogrep.Errorf(bogrep.ESOURCE, "open source: %v", err))
	}
	defer f.Close()

	desc := bogrep.SourceDescriptor{Kind: bogrep.SourceKindSimple, Path: src.Path}
	var out []bogrep.SourceBookmark
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, bogrep.SourceBookmark{URL: line, Source: desc})
	}
	if err := scanner.Err(); err != nil {
		return nil, bogrep.WrapOp("simple.Read", bogrep.Errorf(bogrep.ESOURCE, "scan source: %v", err))
	}
	return out, nil
}
