// Package reader composes the format-specific bookmark readers
// (reader/json, reader/plist, reader/simple) behind a single entry
// point that fans out across every configured source.
package reader

import (
	"context"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/bloom"
)

// Composite fans out to whichever configured reader recognizes each
// source path and merges the resulting observations into one stream.
type Composite struct {
	readers []bogrep.Reader
}

// NewComposite creates a Composite trying each reader, in order, via
// CanRead.
func NewComposite(readers ...bogrep.Reader) *Composite {
	return &Composite{readers: readers}
}

// Read reads every configured source and merges the observations. A
// bloom filter pre-checks candidate duplicates across sources before
// falling back to an exact set, so a false positive only costs one
// extra map lookup and never drops a bookmark (final uniqueness is
// still enforced by the target store's URL-keyed upsert).
func (c *Composite) Read(ctx context.Context, sources []bogrep.Source) ([]bogrep.SourceBookmark, error) {
	seen := make(map[string]struct{})
	filter := bloom.NewFilter(uint(len(sources)*256+1024), 0.01)

	var out []bogrep.SourceBookmark
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reader := c.readerFor(src.Path)
		if reader == nil {
			return nil, bogrep.Errorf(bogrep.ESOURCE, "no reader recognizes source %s", src.Path)
		}

		observed, err := reader.Read(ctx, src)
		if err != nil {
			return nil, err
		}

		for _, b := range observed {
			if filter.Test(b.URL) {
				if _, dup := seen[b.URL]; dup {
					continue
				}
			}
			filter.Add(b.URL)
			seen[b.URL] = struct{}{}
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *Composite) readerFor(path string) bogrep.Reader {
	for _, r := range c.readers {
		if r.CanRead(path) {
			return r
		}
	}
	return nil
}
