package mock

import (
	"context"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Store = (*Store)(nil)

// Store is a mock implementation of bogrep.Store.
type Store struct {
	LoadFn func(ctx context.Context) ([]*bogrep.TargetBookmark, error)
	SaveFn func(ctx context.Context, index []*bogrep.TargetBookmark) error
}

func (s *Store) Load(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
	return s.LoadFn(ctx)
}

func (s *Store) Save(ctx context.Context, index []*bogrep.TargetBookmark) error {
	return s.SaveFn(ctx, index)
}
