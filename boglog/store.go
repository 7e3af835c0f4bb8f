// Package boglog provides logging decorators for bogrep services, built on
// the standard library's structured logger.
package boglog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Store = (*Store)(nil)

// Store wraps a bogrep.Store with debug logging.
type Store struct {
	next   bogrep.Store
	logger *slog.Logger
}

// NewStore creates a new logging Store.
func NewStore(next bogrep.Store, logger *slog.Logger) *Store {
	return &Store{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the operation.
func (s *Store) Load(ctx context.Context) (index []*bogrep.TargetBookmark, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("store load",
			"count", len(index),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store and logs the operation.
func (s *Store) Save(ctx context.Context, index []*bogrep.TargetBookmark) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("store save",
			"count", len(index),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, index)
}
