package mock

import (
	"context"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Throttler = (*Throttler)(nil)

// Throttler is a mock implementation of bogrep.Throttler.
type Throttler struct {
	WaitFn func(ctx context.Context, host string) error
}

func (t *Throttler) Wait(ctx context.Context, host string) error {
	return t.WaitFn(ctx, host)
}
