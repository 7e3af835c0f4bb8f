package mock

import (
	"context"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Reader = (*Reader)(nil)

// Reader is a mock implementation of bogrep.Reader.
type Reader struct {
	CanReadFn func(path string) bool
	ReadFn    func(ctx context.Context, src bogrep.Source) ([]bogrep.SourceBookmark, error)
}

func (r *Reader) CanRead(path string) bool {
	return r.CanReadFn(path)
}

func (r *Reader) Read(ctx context.Context, src bogrep.Source) ([]bogrep.SourceBookmark, error) {
	return r.ReadFn(ctx, src)
}
