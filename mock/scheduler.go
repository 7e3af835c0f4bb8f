package mock

import (
	"context"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Scheduler = (*Scheduler)(nil)

// Scheduler is a mock implementation of bogrep.Scheduler.
type Scheduler struct {
	RunFn func(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error)
}

func (s *Scheduler) Run(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
	return s.RunFn(ctx, decisions, progress)
}
